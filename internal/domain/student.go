package domain

// Student is a row of the record store.
type Student struct {
	Roll     string
	Name     string
	Subject1 int
	Subject2 int
	Subject3 int
}

func (s Student) Total() int { return s.Subject1 + s.Subject2 + s.Subject3 }

// StudentTotal is one bar of the performance chart.
type StudentTotal struct {
	Name  string
	Total int
}
