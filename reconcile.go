package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mwantia/catalog/data"
	"github.com/mwantia/catalog/log"
	"github.com/mwantia/catalog/storage"
	"github.com/tidwall/btree"
)

// Reconciler brings a catalog into agreement with the live bucket
// contents. It only ever adds or refreshes records: owners and names not
// enumerated by a pass are left untouched, so hand-inserted records and
// datasets whose objects have since disappeared are never dropped.
type Reconciler struct {
	lister storage.Lister
	log    *log.Logger
}

type ReconcilerOption func(*Reconciler)

func WithReconcilerLogger(logger *log.Logger) ReconcilerOption {
	return func(r *Reconciler) {
		r.log = logger
	}
}

func NewReconciler(lister storage.Lister, opts ...ReconcilerOption) *Reconciler {
	reconciler := &Reconciler{
		lister: lister,
		log:    log.New("reconciler"),
	}

	for _, opt := range opts {
		opt(reconciler)
	}

	return reconciler
}

// Update walks the catalog's whole base prefix and merges every owner
// subtree found there. It returns the keys it inserted or refreshed.
func (r *Reconciler) Update(ctx context.Context, cat *Catalog) ([]Key, error) {
	return r.update(ctx, cat, "")
}

// UpdateOwner restricts the walk to one owner's subtree; records under
// every other owner are guaranteed untouched.
func (r *Reconciler) UpdateOwner(ctx context.Context, cat *Catalog, owner string) ([]Key, error) {
	if owner == "" {
		return nil, fmt.Errorf("catalog: empty owner scope")
	}

	return r.update(ctx, cat, owner)
}

func (r *Reconciler) update(ctx context.Context, cat *Catalog, scope string) ([]Key, error) {
	base := cat.Base()

	prefix := strings.TrimSuffix(base, "/") + "/"
	if scope != "" {
		prefix = data.JoinLocation(base, scope) + "/"
	}

	// The listing completes before any merge, so a listing failure aborts
	// the update with the catalog unchanged.
	locations, err := r.lister.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", prefix, err)
	}
	sort.Strings(locations)

	owners := btree.NewMap[string, []string](0)
	for _, location := range locations {
		rel := data.RelativeKey(location, base)
		owner, rest, found := strings.Cut(rel, "/")
		if !found || rest == "" {
			// Objects directly at the base path belong to no owner
			continue
		}
		if scope != "" && owner != scope {
			continue
		}

		subtree, _ := owners.Get(owner)
		owners.Set(owner, append(subtree, location))
	}

	touched := make([]Key, 0)
	owners.Scan(func(owner string, subtree []string) bool {
		derived := deriveDatasets(owner, data.JoinLocation(base, owner), subtree)

		cat.PutAll(derived)
		for _, record := range derived {
			touched = append(touched, record.Key())
		}

		r.log.Debug("Reconciled owner %s: %d objects, %d datasets", owner, len(subtree), len(derived))
		return true
	})

	r.log.Info("Update of %s touched %d datasets across %d owners", prefix, len(touched), owners.Len())
	return touched, nil
}
