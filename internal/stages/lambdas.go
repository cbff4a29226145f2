package stages

import (
	"fmt"
	"os"
	"path/filepath"
)

const allLambdas = "all"

// sharedCodeDir holds code common to several lambdas and is never built on its own.
const sharedCodeDir = "common"

// Lambdas lists the lambdas the current stage acts on.
func (p *Pipeline) Lambdas() ([]string, error) {
	if p.config.Lambda != "" && p.config.Lambda != allLambdas {
		return []string{p.config.Lambda}, nil
	}

	entries, err := os.ReadDir(p.config.LambdasDir)
	if err != nil {
		return nil, fmt.Errorf("reading lambdas directory: %w", err)
	}

	var lambdas []string
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == sharedCodeDir {
			continue
		}
		lambdas = append(lambdas, entry.Name())
	}

	if len(lambdas) == 0 {
		p.logger.WithField("dir", p.config.LambdasDir).Warn("no lambdas found")
	}
	return lambdas, nil
}

func (p *Pipeline) lambdaDir(lambda string) string {
	return filepath.Join(p.config.LambdasDir, lambda)
}
