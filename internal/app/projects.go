package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/voxnote/voxnote/internal/config"
	"github.com/voxnote/voxnote/internal/project"
	"github.com/voxnote/voxnote/internal/store"
	"github.com/voxnote/voxnote/internal/transcript"
)

// commandProjects dispatches the projects subcommands against the store.
func (r Runner) commandProjects(ctx context.Context, cfg config.Config, logger *slog.Logger, args []string) int {
	if len(args) == 0 {
		args = []string{"list"}
	}

	storePath, err := config.ResolveStorePath(cfg.Store.Path)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	projectStore, err := store.Open(ctx, storePath, logger)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: open project store: %v\n", err)
		return 1
	}
	defer func() { _ = projectStore.Close() }()

	// project CRUD surfaces store failures directly regardless of the
	// session mirror policy
	projects := project.NewList(cfg.Store.ListKey, projectStore, project.MirrorFail, logger)
	if err := projects.LoadStored(ctx); err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		return r.projectsList(projects)
	case "show":
		return r.projectsShow(projects, rest)
	case "add":
		return r.projectsAdd(ctx, projects, rest)
	case "edit":
		return r.projectsEdit(ctx, projects, rest)
	case "rm":
		return r.projectsRemove(ctx, projects, rest)
	default:
		fmt.Fprintf(r.Stderr, "error: unknown projects subcommand %q\n", sub)
		return 2
	}
}

func (r Runner) projectsList(projects *project.List) int {
	all := projects.All()
	if len(all) == 0 {
		fmt.Fprintln(r.Stdout, "no projects")
		return 0
	}
	for _, p := range all {
		image := ""
		if len(p.Image) > 0 {
			image = fmt.Sprintf(" [image %d bytes]", len(p.Image))
		}
		fmt.Fprintf(r.Stdout, "%s  %s  %s%s\n", p.ID, p.Title, transcript.Preview(p.Details, 8), image)
	}
	return 0
}

func (r Runner) projectsShow(projects *project.List, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(r.Stderr, "error: usage: projects show <id>")
		return 2
	}
	p, err := projects.Get(args[0])
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Fprintf(r.Stdout, "id: %s\ntitle: %s\ndetails: %s\n", p.ID, p.Title, p.Details)
	if len(p.Image) > 0 {
		fmt.Fprintf(r.Stdout, "image: %d bytes\n", len(p.Image))
	}
	return 0
}

func (r Runner) projectsAdd(ctx context.Context, projects *project.List, args []string) int {
	details := strings.TrimSpace(strings.Join(args, " "))
	created, err := projects.Create(ctx, details)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Fprintf(r.Stdout, "created %s\n", created.ID)
	return 0
}

func (r Runner) projectsEdit(ctx context.Context, projects *project.List, args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(r.Stderr, "error: usage: projects edit <id> [--title T] [--details D] [--image PATH]")
		return 2
	}

	draft, err := projects.Edit(args[0])
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	for i := 1; i < len(args); i++ {
		flag := args[i]
		i++
		if i >= len(args) {
			fmt.Fprintf(r.Stderr, "error: %s requires a value\n", flag)
			return 2
		}
		value := args[i]

		switch flag {
		case "--title":
			draft.SetTitle(value)
		case "--details":
			draft.SetDetails(value)
		case "--image":
			data, err := os.ReadFile(value)
			if err != nil {
				fmt.Fprintf(r.Stderr, "error: read image: %v\n", err)
				return 1
			}
			draft.SetImage(data)
		default:
			fmt.Fprintf(r.Stderr, "error: unknown flag %s\n", flag)
			return 2
		}
	}

	if !draft.Changed() {
		fmt.Fprintln(r.Stdout, "no changes")
		return 0
	}
	if err := draft.Save(ctx); err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Fprintf(r.Stdout, "saved %s\n", args[0])
	return 0
}

func (r Runner) projectsRemove(ctx context.Context, projects *project.List, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(r.Stderr, "error: usage: projects rm <id> [<id>...]")
		return 2
	}
	before := projects.Len()
	if err := projects.Delete(ctx, args...); err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Fprintf(r.Stdout, "removed %d project(s)\n", before-projects.Len())
	return 0
}
