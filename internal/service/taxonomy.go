package service

import (
	"context"
	"fmt"

	"github.com/wp-autopub/internal/models"
	"github.com/wp-autopub/internal/wordpress"
	"github.com/wp-autopub/pkg/slug"
)

// TaxonomyResolver maps category and tag names to their remote entities,
// creating missing ones. Each call fetches the full remote list fresh; no
// cache is held between calls. The returned sequence preserves input order,
// and duplicate names are not deduplicated; the remote side arbitrates.
type TaxonomyResolver struct {
	wp wordpress.Client
}

// NewTaxonomyResolver wires the resolver to the CMS client.
func NewTaxonomyResolver(wp wordpress.Client) *TaxonomyResolver {
	return &TaxonomyResolver{wp: wp}
}

// ResolveCategories looks up or creates each named category, in input order.
func (r *TaxonomyResolver) ResolveCategories(ctx context.Context, names []string) ([]models.Category, error) {
	existing, err := r.wp.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}

	byName := make(map[string]models.Category, len(existing))
	for _, cat := range existing {
		byName[cat.Name] = cat
	}

	resolved := make([]models.Category, 0, len(names))
	for _, name := range names {
		if cat, ok := byName[name]; ok {
			resolved = append(resolved, cat)
			continue
		}
		created, err := r.wp.CreateCategory(ctx, name, slug.Make(name))
		if err != nil {
			return nil, fmt.Errorf("create category %q: %w", name, err)
		}
		resolved = append(resolved, *created)
	}

	return resolved, nil
}

// ResolveTags looks up or creates each named tag, in input order.
func (r *TaxonomyResolver) ResolveTags(ctx context.Context, names []string) ([]models.Tag, error) {
	existing, err := r.wp.GetTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch tags: %w", err)
	}

	byName := make(map[string]models.Tag, len(existing))
	for _, tag := range existing {
		byName[tag.Name] = tag
	}

	resolved := make([]models.Tag, 0, len(names))
	for _, name := range names {
		if tag, ok := byName[name]; ok {
			resolved = append(resolved, tag)
			continue
		}
		created, err := r.wp.CreateTag(ctx, name, slug.Make(name))
		if err != nil {
			return nil, fmt.Errorf("create tag %q: %w", name, err)
		}
		resolved = append(resolved, *created)
	}

	return resolved, nil
}
