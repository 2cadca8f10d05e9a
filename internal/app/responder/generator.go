// Package responder turns a classified message into a reply.
package responder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/PabloGalante/tasktalk/internal/domain"
	"github.com/PabloGalante/tasktalk/internal/observability"
)

// Generator builds replies from templates, optionally drafting them with a
// domain.Drafter first. It holds no mutable state.
type Generator struct {
	drafter domain.Drafter
}

// New returns a Generator. With a nil drafter replies come from the
// built-in templates.
func New(drafter domain.Drafter) *Generator {
	g := &Generator{}
	if drafter == nil {
		drafter = templateDrafter{gen: g}
	}
	g.drafter = drafter
	return g
}

// GenerateResponse returns the template reply for text in category. The
// reply is never empty; the variant depends only on text.
func (g *Generator) GenerateResponse(text string, category domain.Category) string {
	switch category {
	case domain.CategoryGreeting:
		return pick(greetingReplies, text)
	case domain.CategoryTaskRelated:
		return taskGuidance(text)
	case domain.CategoryNonTask:
		return pick(boundaryReplies, text)
	default:
		return generalReply
	}
}

// GenerateResponseWithValidation drafts a reply and checks it against the
// category's keyword rules. Drafter errors and invalid drafts are replaced
// by the canned Fallback reply. A panicking drafter, a cancelled context or
// an error wrapping domain.ErrFatal is returned as domain.ErrGeneration.
func (g *Generator) GenerateResponseWithValidation(
	ctx context.Context,
	text string,
	category domain.Category,
	convCtx *domain.ConversationContext,
) (string, error) {
	const op = "responder.GenerateResponseWithValidation"

	log := observability.LoggerFromContext(ctx).With(zap.String("category", string(category)))

	if err := ctx.Err(); err != nil {
		return "", domain.E(domain.ErrGeneration, op, err)
	}

	var cc domain.ConversationContext
	if convCtx != nil {
		cc = *convCtx
	}

	draft, err := g.draft(ctx, text, category, cc)
	if err != nil {
		if unrecoverable(ctx, err) {
			log.Error("reply drafting failed", zap.Error(err))
			return "", domain.E(domain.ErrGeneration, op, err)
		}
		log.Warn("reply drafting failed, using fallback", zap.Error(err))
		return Fallback(category), nil
	}

	if err := Validate(category, draft); err != nil {
		log.Warn("draft rejected, using fallback", zap.Error(err))
		return Fallback(category), nil
	}

	return draft, nil
}

func (g *Generator) draft(
	ctx context.Context,
	text string,
	category domain.Category,
	convCtx domain.ConversationContext,
) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: drafter panicked: %v", domain.ErrFatal, r)
		}
	}()
	return g.drafter.Draft(ctx, text, category, convCtx)
}

func unrecoverable(ctx context.Context, err error) bool {
	return errors.Is(err, domain.ErrFatal) || ctx.Err() != nil
}

// templateDrafter drafts with the Generator's own templates.
type templateDrafter struct {
	gen *Generator
}

func (d templateDrafter) Draft(_ context.Context, text string, category domain.Category, _ domain.ConversationContext) (string, error) {
	return d.gen.GenerateResponse(text, category), nil
}

func pick(variants []string, text string) string {
	return variants[xxhash.Sum64String(text)%uint64(len(variants))]
}

// taskGuidance explains the operations text asks about, in a fixed order,
// or gives an overview when it names none.
func taskGuidance(text string) string {
	asked := make(map[operation]bool)
	for _, w := range words(text) {
		if op, ok := operationWords[w]; ok {
			asked[op] = true
		}
	}

	if len(asked) == 0 {
		return pick(overviewReplies, text)
	}

	parts := make([]string, 0, len(asked))
	for _, op := range operationOrder {
		if asked[op] {
			parts = append(parts, operationGuidance[op])
		}
	}
	return strings.Join(parts, " ")
}
