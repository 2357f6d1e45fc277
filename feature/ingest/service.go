package ingest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"cms-sync/core/cms"
	"cms-sync/core/logger"
	"cms-sync/core/metrics"
	"cms-sync/core/nodestore"
	"cms-sync/core/reconcile"
	"cms-sync/core/utils"
	"cms-sync/feature/content"
	"cms-sync/feature/media"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrRunInProgress is returned when a run is requested while another one is active.
var ErrRunInProgress = errors.New("a sync run is already in progress")

// Source is the CMS the service reads from. *cms.Client implements it.
type Source interface {
	BaseURL() string
	Authenticate(ctx context.Context, identifier, password string) (string, error)
	Fetch(ctx context.Context, contentType, credential string, limit int) ([]content.Object, error)
	FetchSingle(ctx context.Context, singleType, credential string) ([]content.Object, error)
}

// BeforeNodeCreate may rewrite an entity before its node is built.
// Returning nil skips the entity.
type BeforeNodeCreate func(ctx context.Context, contentType string, entity content.Entity) content.Entity

// Dependencies bundles the collaborators of a Service.
type Dependencies struct {
	Source     Source
	Nodes      nodestore.NodeStore
	Cache      nodestore.Cache
	Downloader media.Downloader
	Logger     *zap.Logger
	// Metrics may be nil.
	Metrics *metrics.Metrics
}

// RunOptions controls a single run.
type RunOptions struct {
	// DryRun plans node changes without applying them. Media is still resolved.
	DryRun bool
}

// TypeReport summarizes one content type of a run.
type TypeReport struct {
	Fetched int `json:"fetched"`
	Nodes   int `json:"nodes"`
	Skipped int `json:"skipped"`
}

// MediaReport summarizes media resolution of a run.
type MediaReport struct {
	Downloaded int `json:"downloaded"`
	Reused     int `json:"reused"`
	Failed     int `json:"failed"`
}

// RunReport is the outcome of a sync run.
type RunReport struct {
	StartedAt time.Time              `json:"started_at"`
	Duration  string                 `json:"duration"`
	DryRun    bool                   `json:"dry_run"`
	Types     map[string]*TypeReport `json:"types"`
	Media     MediaReport            `json:"media"`
	Plan      reconcile.PlanSummary  `json:"plan"`
	Executed  int                    `json:"executed"`
}

// Service runs the sync pipeline.
type Service struct {
	cfg      cms.Config
	mediaCfg media.Config
	deps     Dependencies
	logger   *zap.Logger
	reporter logger.Reporter
	hook     BeforeNodeCreate

	running sync.Mutex
}

// NewService creates a new ingest service.
func NewService(cfg cms.Config, mediaCfg media.Config, deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Service{
		cfg:      cfg,
		mediaCfg: mediaCfg,
		deps:     deps,
		logger:   deps.Logger,
		reporter: logger.NewReporter(deps.Logger),
	}
}

// SetBeforeNodeCreate installs the per-entity hook.
func (s *Service) SetBeforeNodeCreate(hook BeforeNodeCreate) {
	s.hook = hook
}

// fetched is the raw listing of one content type.
type fetched struct {
	name    string
	records []content.Object
}

// Run performs one sync: authenticate, fetch every type, clean, resolve media,
// build nodes and reconcile them against the owned nodes of the store.
// Authentication and fetch failures abort the run. Media failures do not.
func (s *Service) Run(ctx context.Context, opts RunOptions) (report *RunReport, err error) {
	if !s.running.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.running.Unlock()
	defer func() { s.deps.Metrics.RunFinished(err) }()

	report = &RunReport{
		StartedAt: time.Now(),
		DryRun:    opts.DryRun,
		Types:     make(map[string]*TypeReport),
	}

	credential, err := s.authenticate(ctx)
	if err != nil {
		return nil, err
	}

	listings, err := s.fetchAll(ctx, credential)
	if err != nil {
		return nil, err
	}

	resolver := media.NewResolver(
		s.deps.Source.BaseURL(),
		credential,
		s.deps.Cache,
		s.deps.Nodes,
		s.deps.Downloader,
		s.reporter,
		s.logger,
		s.deps.Metrics,
	)

	resolved, mediaResult := s.resolveAll(ctx, resolver, listings)
	report.Media = MediaReport{
		Downloaded: mediaResult.Downloaded,
		Reused:     mediaResult.Reused,
		Failed:     mediaResult.Failed,
	}

	var newNodes []nodestore.Node
	for i, listing := range listings {
		tr := &TypeReport{Fetched: len(listing.records)}
		report.Types[listing.name] = tr

		built := s.buildNodes(ctx, listing.name, resolved[i], tr)
		newNodes = append(newNodes, built...)
	}

	activity := s.reporter.Activity("Reconciling nodes")
	defer activity.End()

	existing, err := s.deps.Nodes.GetNodesByOwner(ctx, s.cfg.Owner)
	if err != nil {
		return nil, fmt.Errorf("failed to load owned nodes: %w", err)
	}

	plan := reconcile.BuildPlan(newNodes, mediaResult.FileNodeIDs, existing)
	report.Plan = plan.Summary

	report.Executed, err = reconcile.ApplyPlan(ctx, s.deps.Nodes, plan, reconcile.ReconcileOptions{DryRun: opts.DryRun})
	if err != nil {
		return nil, err
	}
	if !opts.DryRun {
		s.deps.Metrics.NodeOperation(string(reconcile.ActionCreate), plan.Summary.CreateActions)
		s.deps.Metrics.NodeOperation(string(reconcile.ActionDelete), plan.Summary.DeleteActions)
	}

	report.Duration = time.Since(report.StartedAt).String()
	s.logger.Info("Sync finished",
		zap.Bool("dry_run", opts.DryRun),
		zap.Int("created", plan.Summary.CreateActions),
		zap.Int("deleted", plan.Summary.DeleteActions),
		zap.Int("media_downloaded", mediaResult.Downloaded),
		zap.Int("media_reused", mediaResult.Reused),
		zap.Int("media_failed", mediaResult.Failed),
	)
	return report, nil
}

func (s *Service) authenticate(ctx context.Context) (string, error) {
	if !s.cfg.HasCredentials() {
		return "", nil
	}

	activity := s.reporter.Activity("Authenticating")
	defer activity.End()

	credential, err := s.deps.Source.Authenticate(ctx, s.cfg.Identifier, s.cfg.Password)
	if err != nil {
		return "", err
	}
	return credential, nil
}

// fetchAll fetches every collection and single type in parallel. The first
// error cancels the remaining requests.
func (s *Service) fetchAll(ctx context.Context, credential string) ([]fetched, error) {
	activity := s.reporter.Activity("Fetching content")
	defer activity.End()

	collections := s.cfg.CollectionTypes()
	singles := s.cfg.Singles()
	listings := make([]fetched, len(collections)+len(singles))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range collections {
		g.Go(func() error {
			start := time.Now()
			records, err := s.deps.Source.Fetch(gctx, name, credential, s.cfg.QueryLimit)
			if err != nil {
				return fmt.Errorf("failed to fetch %s: %w", name, err)
			}
			s.deps.Metrics.ObserveFetch(name, len(records), time.Since(start))
			listings[i] = fetched{name: name, records: records}
			return nil
		})
	}
	for i, name := range singles {
		g.Go(func() error {
			start := time.Now()
			records, err := s.deps.Source.FetchSingle(gctx, name, credential)
			if err != nil {
				return fmt.Errorf("failed to fetch %s: %w", name, err)
			}
			s.deps.Metrics.ObserveFetch(name, len(records), time.Since(start))
			listings[len(collections)+i] = fetched{name: name, records: records}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return listings, nil
}

// resolveAll cleans every listing and resolves its media. Each content type
// runs its own worker pool; types run in parallel.
func (s *Service) resolveAll(ctx context.Context, resolver *media.Resolver, listings []fetched) ([][]content.Entity, media.Result) {
	activity := s.reporter.Activity("Resolving media")
	defer activity.End()

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total media.Result
	)
	out := make([][]content.Entity, len(listings))

	for i, listing := range listings {
		wg.Add(1)
		go func() {
			defer wg.Done()

			entities := content.CleanAll(listing.records)
			progress := s.reporter.Progress("Resolving media for "+listing.name, len(entities))
			resolved, res := resolver.ResolveAll(ctx, entities, s.mediaCfg.Concurrency, progress)
			progress.Done()

			out[i] = resolved
			mu.Lock()
			total.Merge(res)
			mu.Unlock()
		}()
	}
	wg.Wait()

	return out, total
}

func (s *Service) buildNodes(ctx context.Context, contentType string, entities []content.Entity, tr *TypeReport) []nodestore.Node {
	nodeType := utils.Capitalize(contentType)
	nodes := make([]nodestore.Node, 0, len(entities))

	for _, entity := range entities {
		if s.hook != nil {
			entity = s.hook(ctx, contentType, entity)
			if entity == nil {
				tr.Skipped++
				continue
			}
		}

		id := entity.ID()
		if id == "" {
			s.reporter.Error("Entity has no id, skipping", errors.New("missing id"), zap.String("content_type", contentType))
			tr.Skipped++
			continue
		}

		nodes = append(nodes, nodestore.NewNode(NodeID(nodeType, id), nodeType, s.cfg.Owner, map[string]any(entity)))
	}

	tr.Nodes = len(nodes)
	return nodes
}

// NodeID namespaces an entity id with its node type.
func NodeID(nodeType, entityID string) string {
	return nodeType + "_" + entityID
}

// ListNodes returns the owned nodes, optionally restricted to one content type.
func (s *Service) ListNodes(ctx context.Context, contentType string) ([]nodestore.Node, error) {
	nodes, err := s.deps.Nodes.GetNodesByOwner(ctx, s.cfg.Owner)
	if err != nil {
		return nil, err
	}
	if contentType == "" {
		return nodes, nil
	}

	nodeType := utils.Capitalize(contentType)
	filtered := make([]nodestore.Node, 0)
	for _, n := range nodes {
		if n.Internal.Type == nodeType {
			filtered = append(filtered, n)
		}
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].ID < filtered[j].ID })
	return filtered, nil
}

// GetNode returns a single node by id.
func (s *Service) GetNode(ctx context.Context, id string) (*nodestore.Node, error) {
	return s.deps.Nodes.GetNode(ctx, id)
}
