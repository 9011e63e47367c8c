package readme

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"

	"readmegen/internal/failure"
	"readmegen/internal/llm"
	"readmegen/internal/prompt"
)

// InstallationFallback replaces the installation section when generation fails.
const InstallationFallback = "## Installation\n\nAuto-generation failed. Please check the repository manually."

const (
	SectionOverview     = "overview"
	SectionInstallation = "installation"
)

// Sections holds both generated section bodies. Neither is ever absent; a
// failed section carries its fallback text instead.
type Sections struct {
	Overview     string
	Installation string
}

// Fallbacks is the text substituted for a section whose generation failed.
type Fallbacks struct {
	Overview     string
	Installation string
}

// DefaultFallbacks keeps the overview empty on failure while the installation
// section gets a visible placeholder.
var DefaultFallbacks = Fallbacks{
	Overview:     "",
	Installation: InstallationFallback,
}

// Generator submits each section prompt independently and absorbs failures.
type Generator struct {
	client    llm.LLMClient
	fallbacks Fallbacks
	log       logger.FieldLogger
}

type Option func(*Generator)

// WithFallbacks overrides DefaultFallbacks.
func WithFallbacks(f Fallbacks) Option {
	return func(g *Generator) { g.fallbacks = f }
}

// WithLogger sets the logger used to report absorbed generation failures.
func WithLogger(log logger.FieldLogger) Option {
	return func(g *Generator) {
		if log != nil {
			g.log = log
		}
	}
}

func NewGenerator(client llm.LLMClient, opts ...Option) *Generator {
	g := &Generator{
		client:    client,
		fallbacks: DefaultFallbacks,
		log:       logger.StandardLogger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate runs the installation and overview prompts concurrently. It never
// fails: each section degrades to its fallback on its own.
func (g *Generator) Generate(ctx context.Context, p prompt.Prompts) Sections {
	var out Sections
	var wg conc.WaitGroup
	wg.Go(func() {
		out.Installation = g.section(ctx, SectionInstallation, p.Installation, g.fallbacks.Installation)
	})
	wg.Go(func() {
		out.Overview = g.section(ctx, SectionOverview, p.Overview, g.fallbacks.Overview)
	})
	wg.Wait()
	return out
}

func (g *Generator) section(ctx context.Context, name, text, fallback string) string {
	if g.client == nil {
		g.log.WithField("section", name).Warn("no generation client configured; using fallback")
		return fallback
	}
	out, err := g.client.GenerateText(llm.WithSection(ctx, name), text)
	if err != nil {
		gerr := failure.New(failure.Generation, "generate "+name, err)
		g.log.WithField("section", name).WithError(gerr).Warn("section generation failed; using fallback")
		return fallback
	}
	return out
}

// Assemble joins the title and both sections into the final document.
func Assemble(repoName string, s Sections) string {
	return "# " + repoName + "\n\n" +
		"## Overview\n" + s.Overview + "\n\n" +
		"## Getting Started\n" + s.Installation
}
