package cli

import (
	"context"

	"sundial/internal/api"
	"sundial/internal/validation"
)

// CategoryCommand handles the category subcommands
type CategoryCommand struct {
	app     *App
	handler *ErrorHandler
}

// NewCategoryCommand creates a new category command handler
func NewCategoryCommand(app *App) *CategoryCommand {
	return &CategoryCommand{app: app, handler: NewErrorHandler()}
}

// Setup makes sure the user's Uncategorized root exists
func (c *CategoryCommand) Setup(ctx context.Context) error {
	result := c.app.api.Setup(c.app.ownerContext(ctx))
	if err := c.handler.HandleResult("set up", result); err != nil {
		return err
	}
	c.app.printf("Ready: %s\n", categoryLine(result.Data.(api.CategoryView)))
	return nil
}

// Add creates a category from form
func (c *CategoryCommand) Add(ctx context.Context, form validation.CategoryForm) error {
	return c.save(ctx, 0, form, "add category", "Added")
}

// Update changes the category named by the id argument
func (c *CategoryCommand) Update(ctx context.Context, arg string, form validation.CategoryForm) error {
	id, err := parseID(arg, "category")
	if err != nil {
		return err
	}
	return c.save(ctx, id, form, "update category", "Updated")
}

func (c *CategoryCommand) save(ctx context.Context, id int64, form validation.CategoryForm, operation, verb string) error {
	result := c.app.api.SaveCategory(c.app.ownerContext(ctx), id, form)
	if err := c.handler.HandleResult(operation, result); err != nil {
		return err
	}
	c.app.printf("%s: %s\n", verb, categoryLine(result.Data.(api.CategoryView)))
	return nil
}

// Show prints one category
func (c *CategoryCommand) Show(ctx context.Context, arg string) error {
	id, err := parseID(arg, "category")
	if err != nil {
		return err
	}
	result := c.app.api.GetCategory(c.app.ownerContext(ctx), id)
	if err := c.handler.HandleResult("show category", result); err != nil {
		return err
	}
	printCategory(c.app.out, result.Data.(api.CategoryView))
	return nil
}

// List prints every category ordered by name
func (c *CategoryCommand) List(ctx context.Context) error {
	result := c.app.api.ListCategories(c.app.ownerContext(ctx))
	if err := c.handler.HandleResult("list categories", result); err != nil {
		return err
	}
	printCategories(c.app.out, result.Data.([]api.CategoryView))
	return nil
}

// Tree prints the category forest indented by depth
func (c *CategoryCommand) Tree(ctx context.Context) error {
	result := c.app.api.CategoryTree(c.app.ownerContext(ctx))
	if err := c.handler.HandleResult("show category tree", result); err != nil {
		return err
	}
	printTree(c.app.out, result.Data.([]*api.CategoryNodeView))
	return nil
}
