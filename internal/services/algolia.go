// Algolia implementation of [SearchIndex]
package services

import (
	"context"
	"fmt"

	"github.com/algolia/algoliasearch-client-go/v3/algolia/opt"
	"github.com/algolia/algoliasearch-client-go/v3/algolia/search"
	"github.com/desertthunder/hamilmoji/internal/models"
	"github.com/desertthunder/hamilmoji/internal/shared"
)

// AlgoliaIndex implements [SearchIndex] on top of an Algolia index.
type AlgoliaIndex struct {
	name  string
	index *search.Index
}

// NewAlgoliaIndex creates a client for the configured application and opens the named index.
func NewAlgoliaIndex(cfg shared.AlgoliaConfig) (*AlgoliaIndex, error) {
	switch {
	case cfg.AppID == "":
		return nil, fmt.Errorf("%w: missing algolia app id", shared.ErrMissingCredentials)
	case cfg.APIKey == "":
		return nil, fmt.Errorf("%w: missing algolia secret", shared.ErrMissingCredentials)
	case cfg.Index == "":
		return nil, fmt.Errorf("%w: missing algolia index name", shared.ErrMissingCredentials)
	}

	return newAlgoliaIndex(cfg.Index, search.Configuration{AppID: cfg.AppID, APIKey: cfg.APIKey}), nil
}

func newAlgoliaIndex(name string, cfg search.Configuration) *AlgoliaIndex {
	client := search.NewClientWithConfig(cfg)
	return &AlgoliaIndex{name: name, index: client.InitIndex(name)}
}

func (a *AlgoliaIndex) Name() string {
	return a.name
}

// ReplaceSynonyms saves regular synonyms with replaceExistingSynonyms set.
func (a *AlgoliaIndex) ReplaceSynonyms(ctx context.Context, synonyms []models.Synonym) (Task, error) {
	if err := ctx.Err(); err != nil {
		return Task{}, err
	}

	res, err := a.index.SaveSynonyms(toRegularSynonyms(synonyms), opt.ReplaceExistingSynonyms(true), ctx)
	if err != nil {
		return Task{}, requestError(ctx, "save synonyms", err)
	}
	return Task{IDs: []int64{res.TaskID}}, nil
}

// Clear removes every record but keeps settings and synonyms.
func (a *AlgoliaIndex) Clear(ctx context.Context) (Task, error) {
	if err := ctx.Err(); err != nil {
		return Task{}, err
	}

	res, err := a.index.ClearObjects(ctx)
	if err != nil {
		return Task{}, requestError(ctx, "clear index", err)
	}
	return Task{IDs: []int64{res.TaskID}}, nil
}

// AddObjects uploads songs in batches; Algolia assigns the object IDs.
func (a *AlgoliaIndex) AddObjects(ctx context.Context, songs []models.Song) (Task, error) {
	if err := ctx.Err(); err != nil {
		return Task{}, err
	}

	res, err := a.index.SaveObjects(songs, opt.AutoGenerateObjectIDIfNotExist(true), ctx)
	if err != nil {
		return Task{}, requestError(ctx, "add objects", err)
	}

	task := Task{IDs: make([]int64, 0, len(res.Responses))}
	for _, batch := range res.Responses {
		task.IDs = append(task.IDs, batch.TaskID)
	}
	return task, nil
}

// Wait polls each task until Algolia reports it as published.
func (a *AlgoliaIndex) Wait(ctx context.Context, task Task) error {
	for _, id := range task.IDs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.index.WaitTask(id, ctx); err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("task %d: %w", id, ctx.Err())
			}
			return fmt.Errorf("%w: task %d: %v", shared.ErrTaskFailed, id, err)
		}
	}
	return nil
}

// requestError reports a cancelled or expired context in place of the
// transport error it caused.
func requestError(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%s: %w", op, ctx.Err())
	}
	return fmt.Errorf("%w: %s: %v", shared.ErrAPIRequest, op, err)
}

func toRegularSynonyms(synonyms []models.Synonym) []search.Synonym {
	rules := make([]search.Synonym, 0, len(synonyms))
	for _, s := range synonyms {
		rules = append(rules, search.NewRegularSynonym(s.ObjectID, s.Synonyms...))
	}
	return rules
}
