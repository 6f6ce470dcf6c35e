package window

// Store owns the CPU and memory rolling windows for the lifetime of the
// process. Each window carries its own lock.
type Store struct {
	CPU    *Window
	Memory *Window
}

// NewStore returns a store with two empty windows of DefaultCapacity.
func NewStore() *Store {
	return &Store{
		CPU:    New(DefaultCapacity),
		Memory: New(DefaultCapacity),
	}
}

// Averages holds the rolling averages after a Record call.
type Averages struct {
	CPU    float64
	Memory float64
}

// Record appends one CPU and one memory sample, in that order, and returns
// the averages that include them.
func (s *Store) Record(cpu, memory float64) Averages {
	return Averages{
		CPU:    s.CPU.PushAverage(cpu),
		Memory: s.Memory.PushAverage(memory),
	}
}
