package assistant

import (
	"context"
	"strings"

	"fintrack-go/internal/domain/categories"
	"fintrack-go/internal/domain/intent"
)

func (h *Handler) category(ctx context.Context, s session, req intent.Request) (Reply, error) {
	ci, err := h.understanding.Category(ctx, req)
	if err != nil {
		return Reply{}, err
	}
	if err := intent.AcceptCommand(ci.Confidence); err != nil {
		return Reply{}, err
	}

	var reply Reply
	switch ci.Action {
	case intent.CategoryCreate:
		created, err := h.services.Categories.Create(ctx, categories.CreateInput{
			UserID: s.userID,
			Name:   ci.CategoryName,
			Kind:   ci.Kind,
			Icon:   optional(ci.Icon),
			Color:  optional(ci.Color),
		})
		if err != nil {
			return Reply{}, err
		}
		reply.Message = s.l.text("category_created", iconOf(*created), created.Name, s.l.text("kind_"+string(created.Kind)))
		reply.effect(EffectCategoryCreated, created.ID)
	case intent.CategoryUpdate:
		input := categories.UpdateInput{UserID: s.userID, Name: ci.CategoryName, NewName: ci.NewCategoryName}
		if ci.Icon != "" {
			input.Icon = categories.OptionalNullableString{Set: true, Value: optional(ci.Icon)}
		}
		if ci.Color != "" {
			input.Color = categories.OptionalNullableString{Set: true, Value: optional(ci.Color)}
		}
		updated, err := h.services.Categories.Update(ctx, input)
		if err != nil {
			return Reply{}, err
		}
		reply.Message = s.l.text("category_updated", displayCategory(*updated))
		reply.effect(EffectCategoryUpdated, updated.ID)
	case intent.CategoryDelete:
		deleted, err := h.services.Categories.Delete(ctx, s.userID, ci.CategoryName)
		if err != nil {
			return Reply{}, err
		}
		reply.Message = s.l.text("category_deleted", deleted.Name)
		reply.effect(EffectCategoryDeleted, deleted.ID)
	default:
		items, err := h.services.Categories.List(ctx, s.userID)
		if err != nil {
			return Reply{}, err
		}
		reply.Message = categoryList(s.l, items)
	}
	return reply, nil
}

func categoryList(l localizer, items []categories.Category) string {
	var expense, income []string
	for _, c := range items {
		if c.Kind == categories.KindIncome {
			income = append(income, "• "+displayCategory(c))
		} else {
			expense = append(expense, "• "+displayCategory(c))
		}
	}
	lines := []string{l.text("category_list_expense")}
	lines = append(lines, expense...)
	lines = append(lines, l.text("category_list_income"))
	lines = append(lines, income...)
	return strings.Join(lines, "\n")
}

func iconOf(c categories.Category) string {
	if c.Icon != nil {
		return *c.Icon
	}
	return "🏷️"
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
