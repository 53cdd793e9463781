package concurrent

// RunJob is one independent annealing run: its index in the batch and the
// seed of its own random generator.
type RunJob struct {
	Index int
	Seed  uint64
}

type JobI interface {
	RunJob
}

type Job[T JobI] struct {
	ID      int
	JobItem T
}
type JobFunc[T JobI, G any] func(job T) G
