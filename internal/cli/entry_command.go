package cli

import (
	"context"
	"fmt"

	"sundial/internal/api"
	"sundial/internal/domain"
	"sundial/internal/validation"
)

// EntryListOptions are the filters accepted by entry list
type EntryListOptions struct {
	Since    string
	From     string
	To       string
	Category int64
	Limit    int
}

// EntryCommand handles the entry subcommands
type EntryCommand struct {
	app     *App
	handler *ErrorHandler
}

// NewEntryCommand creates a new entry command handler
func NewEntryCommand(app *App) *EntryCommand {
	return &EntryCommand{app: app, handler: NewErrorHandler()}
}

// Add records a new log entry
func (c *EntryCommand) Add(ctx context.Context, form validation.EntryForm) error {
	return c.save(ctx, 0, form, "add entry", "Logged")
}

// Update replaces the entry named by the id argument
func (c *EntryCommand) Update(ctx context.Context, arg string, form validation.EntryForm) error {
	id, err := parseID(arg, "entry")
	if err != nil {
		return err
	}
	return c.save(ctx, id, form, "update entry", "Updated")
}

func (c *EntryCommand) save(ctx context.Context, id int64, form validation.EntryForm, operation, verb string) error {
	result := c.app.api.SaveEntry(c.app.ownerContext(ctx), id, form)
	if err := c.handler.HandleResult(operation, result); err != nil {
		return err
	}
	c.app.printf("%s: %s\n", verb, entryLine(result.Data.(api.EntryView)))
	return nil
}

// Show prints one entry
func (c *EntryCommand) Show(ctx context.Context, arg string) error {
	id, err := parseID(arg, "entry")
	if err != nil {
		return err
	}
	result := c.app.api.GetEntry(c.app.ownerContext(ctx), id)
	if err := c.handler.HandleResult("show entry", result); err != nil {
		return err
	}
	c.app.printf("%s\n", entryLine(result.Data.(api.EntryView)))
	return nil
}

// List prints entries matching opts in start order, with a total
func (c *EntryCommand) List(ctx context.Context, opts EntryListOptions) error {
	search, err := opts.searchOptions()
	if err != nil {
		return err
	}
	result := c.app.api.ListEntries(c.app.ownerContext(ctx), search)
	if err := c.handler.HandleResult("list entries", result); err != nil {
		return err
	}
	printEntries(c.app.out, result.Data.([]api.EntryView))
	return nil
}

// searchOptions converts the flags; --since wins over --from
func (o EntryListOptions) searchOptions() (domain.SearchOptions, error) {
	var search domain.SearchOptions

	if o.Since != "" {
		d, err := parseTimeShorthand(o.Since)
		if err != nil {
			return search, err
		}
		from := timeNow().UTC().Add(-d)
		search.StartTime = &from
	} else if o.From != "" {
		from, err := validation.ParseDateTime(o.From)
		if err != nil {
			return search, fmt.Errorf("invalid --from: %s", o.From)
		}
		search.StartTime = &from
	}

	if o.To != "" {
		to, err := validation.ParseDateTime(o.To)
		if err != nil {
			return search, fmt.Errorf("invalid --to: %s", o.To)
		}
		search.EndTime = &to
	}
	if o.Category > 0 {
		id := o.Category
		search.CategoryID = &id
	}
	if o.Limit < 0 {
		return search, fmt.Errorf("invalid --limit: %d", o.Limit)
	}
	search.Limit = o.Limit
	return search, nil
}
