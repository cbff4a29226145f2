package stages

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/go-version"
	"github.com/hashicorp/hc-install/product"
	"github.com/hashicorp/hc-install/releases"
	"github.com/hashicorp/terraform-exec/tfexec"
)

// Terraform is the part of tfexec.Terraform the pipeline drives.
type Terraform interface {
	Init(ctx context.Context, opts ...tfexec.InitOption) error
	Plan(ctx context.Context, opts ...tfexec.PlanOption) (bool, error)
	Apply(ctx context.Context, opts ...tfexec.ApplyOption) error
	Destroy(ctx context.Context, opts ...tfexec.DestroyOption) error
	Output(ctx context.Context, opts ...tfexec.OutputOption) (map[string]tfexec.OutputMeta, error)
}

func (p *Pipeline) installTerraform(ctx context.Context) (Terraform, error) {
	v, err := version.NewVersion(p.config.TerraformVersion)
	if err != nil {
		return nil, fmt.Errorf("parsing terraform version %q: %w", p.config.TerraformVersion, err)
	}

	p.logger.WithField("version", v.String()).Info("installing Terraform")
	installer := &releases.ExactVersion{
		Product: product.Terraform,
		Version: v,
	}
	execPath, err := installer.Install(ctx)
	if err != nil {
		return nil, fmt.Errorf("installing Terraform: %w", err)
	}

	tf, err := tfexec.NewTerraform(p.config.TerraformDir, execPath)
	if err != nil {
		return nil, fmt.Errorf("running NewTerraform: %w", err)
	}
	tf.SetStdout(p.out)
	tf.SetLogger(p.logger.WithField("component", "terraform"))
	return tf, nil
}

// WorkingBucket is the S3 bucket holding remote state and build artefacts for the target account and region.
func (p *Pipeline) WorkingBucket() string {
	return fmt.Sprintf("%d-%s-terraform-deployments", p.config.AccountNumber, p.config.Region)
}

func (p *Pipeline) RemoteStateFile() string {
	return fmt.Sprintf("tfstate/%s/%s.json", p.config.Environment, p.config.AppName)
}

func (p *Pipeline) VarFile() string {
	return fmt.Sprintf("environments/%s.tfvars", p.config.Environment)
}

func (p *Pipeline) runTerraform(ctx context.Context, stage Stage) error {
	tf, err := p.terraform(ctx)
	if err != nil {
		return err
	}

	switch stage {
	case Init:
		return p.terraformInit(ctx, tf)
	case Plan:
		return p.terraformPlan(ctx, tf, false)
	case Apply:
		if !p.config.Confirmed {
			p.logger.Warn("destructive apply not confirmed running plan instead...")
			return p.terraformPlan(ctx, tf, false)
		}
		return p.terraformApply(ctx, tf)
	case Destroy:
		if !p.config.Confirmed {
			p.logger.Warn("destructive destroy not confirmed running plan destroy instead...")
			return p.terraformPlan(ctx, tf, true)
		}
		return p.terraformDestroy(ctx, tf)
	}
	return NewUnknownStageError(string(stage))
}

func (p *Pipeline) terraformInit(ctx context.Context, tf Terraform) error {
	p.logger.WithField("state_file", p.RemoteStateFile()).Info("initialising Terraform")
	if err := tf.Init(ctx,
		tfexec.Upgrade(true),
		tfexec.BackendConfig(fmt.Sprintf("key=%s", p.RemoteStateFile())),
		tfexec.BackendConfig(fmt.Sprintf("bucket=%s", p.WorkingBucket())),
		tfexec.BackendConfig(fmt.Sprintf("region=%s", p.config.Region))); err != nil {
		return fmt.Errorf("running Init: %w", err)
	}
	return nil
}

func (p *Pipeline) terraformPlan(ctx context.Context, tf Terraform, destroy bool) error {
	p.logger.WithField("destroy", destroy).Info("planning Terraform")
	opts := []tfexec.PlanOption{tfexec.Refresh(true), tfexec.Destroy(destroy), tfexec.VarFile(p.VarFile())}
	for _, v := range p.vars() {
		opts = append(opts, v)
	}
	if _, err := tf.Plan(ctx, opts...); err != nil {
		return fmt.Errorf("running Plan: %w", err)
	}
	return nil
}

func (p *Pipeline) terraformApply(ctx context.Context, tf Terraform) error {
	p.logger.Info("applying Terraform")
	opts := []tfexec.ApplyOption{tfexec.Refresh(true), tfexec.VarFile(p.VarFile())}
	for _, v := range p.vars() {
		opts = append(opts, v)
	}
	if err := tf.Apply(ctx, opts...); err != nil {
		return fmt.Errorf("running Apply: %w", err)
	}
	return p.displayOutputs(ctx, tf)
}

func (p *Pipeline) terraformDestroy(ctx context.Context, tf Terraform) error {
	p.logger.Info("destroying all the things...")
	opts := []tfexec.DestroyOption{tfexec.Refresh(true), tfexec.VarFile(p.VarFile())}
	for _, v := range p.vars() {
		opts = append(opts, v)
	}
	if err := tf.Destroy(ctx, opts...); err != nil {
		return fmt.Errorf("running Destroy: %w", err)
	}
	return p.displayOutputs(ctx, tf)
}

func (p *Pipeline) vars() []*tfexec.VarOption {
	return []*tfexec.VarOption{
		tfexec.Var(fmt.Sprintf("distribution_bucket=%s", p.WorkingBucket())),
		tfexec.Var(fmt.Sprintf("account_number=%d", p.config.AccountNumber)),
		tfexec.Var(fmt.Sprintf("region=%s", p.config.Region)),
		tfexec.Var(fmt.Sprintf("environment=%s", p.config.Environment)),
		tfexec.Var(fmt.Sprintf("product=%s", p.config.AppName)),
	}
}

func (p *Pipeline) displayOutputs(ctx context.Context, tf Terraform) error {
	outputs, err := tf.Output(ctx)
	if err != nil {
		return fmt.Errorf("outputting outputs: %w", err)
	}
	if len(outputs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(outputs))
	for key := range outputs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Fprintln(p.out, "Terraform outputs:")
	for _, key := range keys {
		if outputs[key].Sensitive {
			continue
		}
		fmt.Fprintf(p.out, "%s = %s\n", key, string(outputs[key].Value))
	}
	return nil
}
