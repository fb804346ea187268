package model

// State is the whole persisted dataset. It is loaded and saved as one blob.
type State struct {
	Students  []Student  `json:"students" yaml:"students"`
	Lessons   []Lesson   `json:"lessons" yaml:"lessons"`
	Payments  []Payment  `json:"payments" yaml:"payments"`
	Schedules []Schedule `json:"schedules" yaml:"schedules"`
	NextID    int64      `json:"nextId" yaml:"next_id"`
}

// NewState returns an empty state with the id counter initialised.
func NewState() *State {
	return &State{
		Students:  []Student{},
		Lessons:   []Lesson{},
		Payments:  []Payment{},
		Schedules: []Schedule{},
		NextID:    1,
	}
}

// Normalize repairs older blobs: nil collections, legacy schedule fields and
// an id counter that lags behind existing records.
func (s *State) Normalize() {
	if s.Students == nil {
		s.Students = []Student{}
	}
	if s.Lessons == nil {
		s.Lessons = []Lesson{}
	}
	if s.Payments == nil {
		s.Payments = []Payment{}
	}
	if s.Schedules == nil {
		s.Schedules = []Schedule{}
	}

	for i := range s.Schedules {
		s.Schedules[i].Normalize()
	}

	maxID := int64(0)
	for _, st := range s.Students {
		maxID = max(maxID, st.ID)
	}
	for _, l := range s.Lessons {
		maxID = max(maxID, l.ID)
	}
	for _, p := range s.Payments {
		maxID = max(maxID, p.ID)
	}
	for _, sc := range s.Schedules {
		maxID = max(maxID, sc.ID)
	}
	if s.NextID <= maxID {
		s.NextID = maxID + 1
	}
}

// NewID hands out the next id shared by all record kinds.
func (s *State) NewID() int64 {
	if s.NextID < 1 {
		s.NextID = 1
	}
	id := s.NextID
	s.NextID++
	return id
}

func (s *State) FindStudent(id int64) *Student {
	for i := range s.Students {
		if s.Students[i].ID == id {
			return &s.Students[i]
		}
	}
	return nil
}

func (s *State) FindLesson(id int64) *Lesson {
	for i := range s.Lessons {
		if s.Lessons[i].ID == id {
			return &s.Lessons[i]
		}
	}
	return nil
}

func (s *State) FindPayment(id int64) *Payment {
	for i := range s.Payments {
		if s.Payments[i].ID == id {
			return &s.Payments[i]
		}
	}
	return nil
}

func (s *State) FindSchedule(id int64) *Schedule {
	for i := range s.Schedules {
		if s.Schedules[i].ID == id {
			return &s.Schedules[i]
		}
	}
	return nil
}

// StudentName returns the display name, or "Unknown" for a dangling reference.
func (s *State) StudentName(id int64) string {
	if st := s.FindStudent(id); st != nil {
		return st.Name
	}
	return UnknownStudentName
}

// StudentNames maps student ids to display names.
func (s *State) StudentNames() map[int64]string {
	names := make(map[int64]string, len(s.Students))
	for _, st := range s.Students {
		names[st.ID] = st.Name
	}
	return names
}

// UnknownStudentName is shown for records whose student no longer exists.
const UnknownStudentName = "Unknown"
