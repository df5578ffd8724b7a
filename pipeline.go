package macpack

import (
	"context"
	"fmt"
	"os"
)

type (
	// Step is one stage of the distribution pipeline.
	Step interface {
		Name() string
		Run(ctx context.Context) error
	}

	// ProgressFunc gets called before each step runs.
	ProgressFunc func(current, total int, name string)

	// Pipeline runs its steps strictly in order and stops at the first
	// failure.
	Pipeline struct {
		steps    []Step
		progress ProgressFunc
	}
)

func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{
		steps:    steps,
		progress: func(current, total int, name string) {},
	}
}

func (p *Pipeline) SetProgressFunction(function ProgressFunc) {
	p.progress = function
}

func (p *Pipeline) Run(ctx context.Context) error {
	for i, step := range p.steps {
		p.progress(i+1, len(p.steps), step.Name())
		log.Debug().Str("step", step.Name()).Msg("starting")
		if err := step.Run(ctx); err != nil {
			return fmt.Errorf("%s: %w", step.Name(), err)
		}
	}
	return nil
}

// DistSteps assembles the full distribution pipeline for a descriptor:
// bundling, disk image, and the optional signing and notarization stages in
// between.
func DistSteps(desc *Descriptor, run Runner, msg *Translator) []Step {
	steps := []Step{NewBundleStep(desc, run, msg)}
	signing := desc.Signing
	if signing != nil && signing.Identity != "" {
		steps = append(steps, NewSignStep(desc.BundlePath(), signing.Identity, run))
	}
	steps = append(steps, NewDMGStep(desc, run, msg))
	if signing != nil && signing.Identity != "" {
		steps = append(steps, NewSignStep(desc.ImagePath(), signing.Identity, run))
	}
	if signing != nil && signing.NotaryProfile != "" {
		steps = append(steps, NewNotarizeStep(desc.ImagePath(), signing.NotaryProfile, run))
	}
	return steps
}

// CleanArtifacts removes everything the pipeline produces: the application
// bundle, the disk image, and the build directory with the rendered bundler
// descriptor.
func CleanArtifacts(desc *Descriptor) error {
	if err := removeStaleBundle(desc.BundlePath()); err != nil {
		return err
	}
	if err := os.Remove(desc.ImagePath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.RemoveAll(buildDir)
}
