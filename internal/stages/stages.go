package stages

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

type Stage string

const (
	UnitTest Stage = "unit-test"
	Build    Stage = "build"
	IntTest  Stage = "int-test"
	Init     Stage = "init"
	Plan     Stage = "plan"
	Apply    Stage = "apply"
	Destroy  Stage = "destroy"
)

var All = []Stage{UnitTest, Build, IntTest, Init, Plan, Apply, Destroy}

// makeTargets maps the per-lambda stages onto the targets every lambda Makefile provides.
var makeTargets = map[Stage]string{
	UnitTest: "unit-test",
	Build:    "target",
	IntTest:  "int-test",
}

type Config struct {
	AccountNumber    uint   `mapstructure:"account-number"`
	Region           string `mapstructure:"region"`
	AppName          string `mapstructure:"app-name"`
	Environment      string `mapstructure:"environment"`
	Lambda           string `mapstructure:"lambda"`
	LambdasDir       string `mapstructure:"lambdas-dir"`
	Confirmed        bool   `mapstructure:"confirm"`
	TerraformDir     string `mapstructure:"terraform-dir"`
	TerraformVersion string `mapstructure:"terraform-version"`
}

type CommandRunner interface {
	Run(ctx context.Context, dir string, command string, args ...string) (string, error)
}

type Pipeline struct {
	config    Config
	runner    CommandRunner
	terraform func(ctx context.Context) (Terraform, error)
	logger    *logrus.Entry
	out       io.Writer
}

type Option func(*Pipeline)

func WithCommandRunner(runner CommandRunner) Option {
	return func(p *Pipeline) { p.runner = runner }
}

func WithTerraform(tf Terraform) Option {
	return func(p *Pipeline) {
		p.terraform = func(context.Context) (Terraform, error) { return tf, nil }
	}
}

func WithOutput(out io.Writer) Option {
	return func(p *Pipeline) { p.out = out }
}

func New(config Config, logger *logrus.Entry, opts ...Option) *Pipeline {
	p := &Pipeline{
		config: config,
		runner: execRunner{},
		logger: logger.WithField("component", "pipeline"),
		out:    os.Stdout,
	}
	p.terraform = p.installTerraform
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) Run(ctx context.Context, stage Stage) error {
	switch stage {
	case UnitTest, Build, IntTest:
		lambdas, err := p.Lambdas()
		if err != nil {
			return err
		}
		return p.runMakeTarget(ctx, stage, lambdas)
	case Init, Plan, Apply, Destroy:
		if p.config.AppName == "" {
			return ErrAppNameRequired
		}
		return p.runTerraform(ctx, stage)
	default:
		return NewUnknownStageError(string(stage))
	}
}

func (p *Pipeline) runMakeTarget(ctx context.Context, stage Stage, lambdas []string) error {
	for _, lambda := range lambdas {
		logger := p.logger.WithFields(logrus.Fields{"stage": stage, "lambda": lambda})
		logger.Info("running make target")
		stdout, err := p.runner.Run(ctx, p.lambdaDir(lambda), "make", makeTargets[stage])
		if err != nil {
			return &StageError{Stage: stage, Lambda: lambda, Output: stdout, Err: err}
		}
		logger.WithField("stdout", stdout).Info("stage passed")
	}
	return nil
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, dir string, command string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = dir
	var stdout strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stdout
	err := cmd.Run()
	return stdout.String(), err
}
