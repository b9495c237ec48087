package invites

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	contract "invitedesk/contracts/invites"
	dErrors "invitedesk/pkg/domain-errors"
	"invitedesk/pkg/platform/circuit"
)

const handlePrefix = "at://"

// Directory looks up DID documents.
type Directory interface {
	ResolveIdentifier(ctx context.Context, did string) (*contract.DIDDocument, error)
}

// ResolverConfig configures a Resolver.
type ResolverConfig struct {
	Directory Directory
	// Concurrency bounds parallel lookups per batch. Default 4.
	Concurrency int
	Breaker     *circuit.Breaker
	Logger      *slog.Logger
	// OnResolved runs after a batch adds at least one entry to the cache.
	OnResolved func()
}

// Resolver maps DIDs to handles. Entries are never evicted; a DID that
// cannot be resolved is cached as itself so it is not looked up again.
type Resolver struct {
	dir        Directory
	limit      int
	breaker    *circuit.Breaker
	logger     *slog.Logger
	onResolved func()

	group singleflight.Group
	wg    sync.WaitGroup

	mu    sync.RWMutex
	cache map[string]string
}

func NewResolver(cfg ResolverConfig) *Resolver {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 4
	}
	if cfg.Breaker == nil {
		cfg.Breaker = circuit.New("directory")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Resolver{
		dir:        cfg.Directory,
		limit:      cfg.Concurrency,
		breaker:    cfg.Breaker,
		logger:     cfg.Logger,
		onResolved: cfg.OnResolved,
		cache:      make(map[string]string),
	}
}

// Lookup returns the cached handle for did.
func (r *Resolver) Lookup(did string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.cache[did]
	return h, ok
}

// Resolve starts background lookups for the uncached DIDs in dids and
// returns immediately. Lookups outlive ctx's cancellation.
func (r *Resolver) Resolve(ctx context.Context, dids []string) {
	pending := r.uncached(dids)
	if len(pending) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		var (
			g    errgroup.Group
			grew atomic.Bool
		)
		g.SetLimit(r.limit)
		for _, did := range pending {
			g.Go(func() error {
				_, _, _ = r.group.Do(did, func() (any, error) {
					if h, ok := r.Lookup(did); ok {
						return h, nil
					}
					h := r.lookup(ctx, did)
					if r.store(did, h) {
						grew.Store(true)
					}
					return h, nil
				})
				return nil
			})
		}
		_ = g.Wait()

		if grew.Load() && r.onResolved != nil {
			r.onResolved()
		}
	}()
}

// Wait blocks until every batch started so far has finished.
func (r *Resolver) Wait() {
	r.wg.Wait()
}

func (r *Resolver) uncached(dids []string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{}, len(dids))
	var out []string
	for _, did := range dids {
		if !strings.HasPrefix(did, "did:") {
			continue
		}
		if _, ok := r.cache[did]; ok {
			continue
		}
		if _, ok := seen[did]; ok {
			continue
		}
		seen[did] = struct{}{}
		out = append(out, did)
	}
	return out
}

// store adds did unless present and reports whether it was added.
func (r *Resolver) store(did, handle string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cache[did]; ok {
		return false
	}
	r.cache[did] = handle
	return true
}

func (r *Resolver) lookup(ctx context.Context, did string) string {
	if !r.breaker.Allow() {
		r.logger.WarnContext(ctx, "directory circuit open, skipping lookup", "did", did)
		return did
	}
	doc, err := r.dir.ResolveIdentifier(ctx, did)
	if err != nil {
		if directoryDown(err) {
			if change := r.breaker.RecordFailure(); change.Opened {
				r.logger.WarnContext(ctx, "directory circuit opened", "breaker", r.breaker.Name())
			}
		} else {
			r.breaker.RecordSuccess()
		}
		r.logger.WarnContext(ctx, "failed to resolve did", "did", did, "error", err)
		return did
	}
	if change := r.breaker.RecordSuccess(); change.Closed {
		r.logger.InfoContext(ctx, "directory circuit closed", "breaker", r.breaker.Name())
	}
	return HandleFromDocument(doc, did)
}

// directoryDown reports whether err says the directory itself is failing,
// as opposed to not knowing the DID.
func directoryDown(err error) bool {
	var e *dErrors.Error
	if !errors.As(err, &e) {
		return true
	}
	return e.Code == dErrors.CodeNetwork || e.Status >= 500
}

// HandleFromDocument returns the first at:// alias without its prefix, or
// did when there is none.
func HandleFromDocument(doc *contract.DIDDocument, did string) string {
	if doc == nil {
		return did
	}
	for _, aka := range doc.AlsoKnownAs {
		if strings.HasPrefix(aka, handlePrefix) {
			return strings.TrimPrefix(aka, handlePrefix)
		}
	}
	return did
}
