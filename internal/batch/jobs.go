package batch

import (
	"fmt"

	"github.com/mrjaywilson/QOE-Core/internal/abr"
	"github.com/mrjaywilson/QOE-Core/internal/playback"
	"github.com/mrjaywilson/QOE-Core/internal/trace"
)

// CompareJobs returns one job per strategy kind over the same samples.
// Strategy parameters other than the kind are taken from cfg.
func CompareJobs(cfg playback.SessionConfig, samples []float64) []Job {
	kinds := abr.Kinds()
	jobs := make([]Job, 0, len(kinds))
	for _, kind := range kinds {
		c := cfg
		c.Strategy.Kind = kind
		jobs = append(jobs, Job{
			Name:    kind.String(),
			Config:  c,
			Samples: samples,
		})
	}
	return jobs
}

// RunJobs returns n jobs with the same configuration, job i simulating the
// generator's trace for run i.
func RunJobs(cfg playback.SessionConfig, gen *trace.Generator, n int) []Job {
	jobs := make([]Job, n)
	for i := range jobs {
		jobs[i] = Job{
			Name:    fmt.Sprintf("run-%03d", i+1),
			Config:  cfg,
			Samples: gen.ForRun(i),
		}
	}
	return jobs
}
