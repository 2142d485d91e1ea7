package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"sched/internal/calendar"
	appLog "sched/internal/log"
	"sched/internal/model"
	"sched/internal/store"
)

// request is a parsed command ready to run against a store.
type request interface {
	execute(ctx context.Context, st store.Store, out io.Writer) error
}

type command struct {
	name    string
	usage   string
	summary string
	parse   func(args []string) (request, error)
}

var commands = []command{
	{name: "list", usage: "list", summary: "show all schedules", parse: parseList},
	{name: "add", usage: "add <subject> <start> <end>", summary: "add a schedule (times as YYYY-MM-DDTHH:MM[:SS])", parse: parseAdd},
	{name: "delete", usage: "delete <id>", summary: "delete a schedule by id", parse: parseDelete},
}

func lookupCommand(args []string) (command, []string, error) {
	if len(args) == 0 {
		return command{}, nil, fmt.Errorf("missing command")
	}
	for _, c := range commands {
		if c.name == args[0] {
			return c, args[1:], nil
		}
	}
	return command{}, nil, fmt.Errorf("unknown command %q", args[0])
}

type listRequest struct{}

func parseList(args []string) (request, error) {
	if len(args) != 0 {
		return nil, fmt.Errorf("list takes no arguments, got %d", len(args))
	}
	return listRequest{}, nil
}

func (listRequest) execute(ctx context.Context, st store.Store, out io.Writer) error {
	cal, err := st.Load(ctx)
	if err != nil {
		return err
	}
	return renderList(out, cal)
}

func renderList(out io.Writer, cal *calendar.Calendar) error {
	tw := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTART\tEND\tDURATION\tSUBJECT")
	for _, a := range cal.List() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			a.ID, model.FormatDisplay(a.Start), model.FormatDisplay(a.End), a.Duration(), a.Subject)
	}
	return tw.Flush()
}

type addRequest struct {
	subject    string
	start, end time.Time
}

func parseAdd(args []string) (request, error) {
	if len(args) != 3 {
		return nil, fmt.Errorf("add takes 3 arguments, got %d", len(args))
	}
	start, err := model.ParseNaive(args[1])
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	end, err := model.ParseNaive(args[2])
	if err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}
	return addRequest{subject: args[0], start: start, end: end}, nil
}

func (r addRequest) execute(ctx context.Context, st store.Store, out io.Writer) error {
	cal, err := st.Load(ctx)
	if err != nil {
		return err
	}
	added, err := cal.Add(r.subject, r.start, r.end)
	if err != nil {
		return err
	}
	if err := st.Save(ctx, cal); err != nil {
		return err
	}
	appLog.Info("schedule added", "id", added.ID, "subject", added.Subject)
	fmt.Fprintf(out, "added schedule %d\n", added.ID)
	return nil
}

type deleteRequest struct {
	id uint64
}

func parseDelete(args []string) (request, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("delete takes 1 argument, got %d", len(args))
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid id %q", args[0])
	}
	return deleteRequest{id: id}, nil
}

func (r deleteRequest) execute(ctx context.Context, st store.Store, out io.Writer) error {
	cal, err := st.Load(ctx)
	if err != nil {
		return err
	}
	if err := cal.Delete(r.id); err != nil {
		return err
	}
	if err := st.Save(ctx, cal); err != nil {
		return err
	}
	appLog.Info("schedule deleted", "id", r.id)
	fmt.Fprintf(out, "deleted schedule %d\n", r.id)
	return nil
}
