package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/casaelena/colibrisync/internal/domain"
	"github.com/casaelena/colibrisync/internal/slug"
)

// attributeKey is the result of the schema-discovery pass over a record's
// field names: one tuple per discovered attribute slug.
type attributeKey struct {
	Slug       string
	NameKey    string
	ValueKey   string
	VisibleKey string
	// Both spellings of the variation flag occur in the feed; the first one
	// present wins.
	VariationKeys [2]string
}

// discoverAttributeKeys scans a record's field names for the
// NOMBRE_DE_ATRIBUTO_<slug> pattern. Slugs whose name or value field is
// missing are dropped entirely. Output is sorted by slug so resolution order
// is deterministic.
func discoverAttributeKeys(rec domain.RawRecord) []attributeKey {
	var keys []attributeKey
	for field := range rec {
		if !strings.HasPrefix(field, domain.AttrNamePrefix) {
			continue
		}
		s := strings.TrimPrefix(field, domain.AttrNamePrefix)
		if s == "" {
			continue
		}
		k := attributeKey{
			Slug:       s,
			NameKey:    field,
			ValueKey:   domain.AttrValuePrefix + s,
			VisibleKey: domain.AttrVisiblePrefix + s,
			VariationKeys: [2]string{
				domain.AttrPrefix + s + domain.AttrVariableEsSuf,
				domain.AttrPrefix + s + domain.AttrVariableSuf,
			},
		}
		if !rec.Has(k.ValueKey) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Slug < keys[j].Slug })
	return keys
}

// affirmative matches the feed's flag token, case-insensitively.
func affirmative(v string) bool { return strings.EqualFold(strings.TrimSpace(v), "yes") }

func variationFlag(rec domain.RawRecord, k attributeKey) bool {
	for _, key := range k.VariationKeys {
		if rec.Has(key) {
			return affirmative(rec.Str(key))
		}
	}
	return false
}

// buildAttributes is the resolution pass: for every discovered slug it
// registers the backing taxonomy, collects the distinct values across the
// whole group, ensures each value exists as a term, and emits one assignment.
// A registration failure skips that attribute only.
func (uc *SyncUC) buildAttributes(ctx context.Context, group domain.SkuGroup) []domain.AttributeAssignment {
	first := group.First()
	var out []domain.AttributeAssignment

	for _, k := range discoverAttributeKeys(first) {
		label := first.Str(k.NameKey)
		if label == "" {
			continue
		}
		taxSlug := slug.Make(label)
		if _, err := uc.Terms.EnsureTaxonomy(ctx, taxSlug, slug.Label(taxSlug)); err != nil {
			log.Error().Err(err).Str("taxonomy", taxSlug).Msg("taxonomy registration failed, skipping attribute")
			continue
		}

		seen := map[string]struct{}{}
		var termSlugs []string
		for _, rec := range group.Records {
			value := rec.Str(k.ValueKey)
			if value == "" {
				continue
			}
			if _, dup := seen[value]; dup {
				continue
			}
			seen[value] = struct{}{}
			term, err := uc.Terms.EnsureTerm(ctx, taxSlug, value)
			if err != nil {
				log.Error().Err(err).Str("taxonomy", taxSlug).Str("value", value).Msg("term registration failed, skipping value")
				continue
			}
			termSlugs = append(termSlugs, term.Slug)
		}

		out = append(out, domain.AttributeAssignment{
			Taxonomy:  taxSlug,
			Label:     label,
			TermSlugs: termSlugs,
			Visible:   affirmative(first.Str(k.VisibleKey)),
			Variation: variationFlag(first, k),
		})
	}
	return out
}

// variationAttributeValues resolves the single value present for each slug on
// one variation record into a taxonomy→term assignment. Empty values and
// terms that cannot be created are skipped without failing the variation.
func (uc *SyncUC) variationAttributeValues(ctx context.Context, rec domain.RawRecord) map[string]string {
	assignment := map[string]string{}
	for _, k := range discoverAttributeKeys(rec) {
		label := rec.Str(k.NameKey)
		value := rec.Str(k.ValueKey)
		if label == "" || value == "" {
			continue
		}
		taxSlug := slug.Make(label)
		term, err := uc.Terms.EnsureTerm(ctx, taxSlug, value)
		if err != nil {
			log.Error().Err(err).Str("taxonomy", taxSlug).Str("value", value).Msg("variation term registration failed, skipping")
			continue
		}
		assignment[taxSlug] = term.Slug
	}
	return assignment
}
