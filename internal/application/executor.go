package application

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"projectkeeper/internal/domain"
	"projectkeeper/internal/ports"
)

// Result is the uniform outcome of an executed operation
type Result struct {
	OperationID    string           `json:"operationId,omitempty"`
	Operation      domain.Operation `json:"operation"`
	Success        bool             `json:"success"`
	Message        string           `json:"message"`
	BackupPath     string           `json:"backupPath,omitempty"`
	RenamedFolders []string         `json:"renamedFolders,omitempty"`
	RemovedEntries []string         `json:"removedEntries,omitempty"`
	Err            error            `json:"-"`
}

// ExecutorDeps are the ports an Executor drives
type ExecutorDeps struct {
	Index   ports.IndexStore
	Storage ports.Storage
	Merger  ports.CatalogMerger
	Vault   ports.BackupVault
	Locker  ports.Locker
	Journal ports.Journal // optional
}

// Executor applies operation plans: confirm, validate, lock, back up, mutate,
// update the index, release. Nothing is touched before the backup exists.
type Executor struct {
	deps   ExecutorDeps
	layout domain.Layout
	logger *zap.Logger
	now    func() time.Time
}

// NewExecutor creates an Executor
func NewExecutor(deps ExecutorDeps, layout domain.Layout, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{deps: deps, layout: layout, logger: logger, now: time.Now}
}

// Execute runs plan. validate, when set, is re-run before anything else
// happens; a failing result aborts with a ValidationError.
func (x *Executor) Execute(ctx context.Context, plan domain.OperationPlan, confirmed bool, validate func() domain.ValidationResult) *Result {
	res := &Result{Operation: plan.Operation}
	if !confirmed {
		res.Err = ErrConfirmationRequired
		res.Message = ErrConfirmationRequired.Error()
		return res
	}

	res.OperationID = uuid.NewString()
	started := x.now()
	log := x.logger.With(zap.String("operation", string(plan.Operation)), zap.String("id", res.OperationID))
	defer func() { x.record(ctx, plan, res, started) }()

	if validate != nil {
		if v := validate(); !v.Valid {
			res.fail(validationFailure(string(plan.Operation), v.Issues), "Validation failed: %s", joinIssues(v.Issues))
			return res
		}
	}

	if !plan.HasMutations() {
		res.Success = true
		res.Message = nothingToDo(plan.Operation)
		return res
	}

	if err := x.deps.Locker.Acquire(ctx); err != nil {
		if errors.Is(err, ports.ErrLockBusy) {
			res.fail(fmt.Errorf("%w: %v", ErrLockTimeout, err), "%s", ErrLockTimeout.Error())
		} else {
			res.fail(fmt.Errorf("failed to acquire lock: %w", err), "Could not acquire lock: %v", err)
		}
		return res
	}
	defer func() {
		if err := x.deps.Locker.Release(); err != nil {
			log.Warn("failed to release lock", zap.Error(err))
		}
	}()
	log.Debug("lock acquired")

	var idx *domain.Index
	if !plan.IndexChanges.IsEmpty() {
		loaded, err := x.loadIndex()
		if err != nil {
			res.fail(err, "Index could not be read; nothing was changed: %v", err)
			return res
		}
		idx = loaded
	}

	if len(plan.Backups) > 0 {
		dir, err := x.deps.Vault.Backup(plan.Backups)
		res.BackupPath = dir
		if err != nil {
			res.fail(fmt.Errorf("failed to create backup: %w", err), "Backup failed; nothing was changed: %v", err)
			return res
		}
		log.Info("backup taken", zap.String("dir", dir), zap.Int("files", len(plan.Backups)))
	}

	if err := x.mutate(plan, idx, res, log); err != nil {
		res.fail(err, "Operation failed: %v", err)
		if res.BackupPath != "" {
			res.Message += fmt.Sprintf(". Restore from %s to roll back", res.BackupPath)
		}
		log.Error("operation failed", zap.Error(err))
		return res
	}

	res.Success = true
	res.Message = successMessage(plan, res)
	log.Info("operation complete", zap.String("message", res.Message))
	return res
}

// mutate performs steps that change disk. Any error or panic comes back as a
// PartialFailure carrying the backup path.
func (x *Executor) mutate(plan domain.OperationPlan, idx *domain.Index, res *Result, log *zap.Logger) (err error) {
	step := "merge"
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			err = &PartialFailure{Step: step, BackupPath: res.BackupPath, Err: err}
		}
	}()

	s := x.deps.Storage
	for _, pair := range plan.Merges {
		log.Debug("merging", zap.String("src", pair.Source), zap.String("dst", pair.Dest))
		if filepath.Dir(pair.Source) == x.layout.ProjectsDir() {
			src := filepath.Join(pair.Source, domain.CatalogFileName)
			dst := filepath.Join(pair.Dest, domain.CatalogFileName)
			if _, err := x.deps.Merger.Merge(src, dst, plan.NewPath); err != nil {
				return err
			}
		}
		if err := s.Absorb(pair.Source, pair.Dest); err != nil {
			return err
		}
		if _, ok := plan.RenameFor(pair.Source); ok {
			quarantined, err := s.SafeDelete(pair.Source, domain.MergedSuffix)
			if err != nil {
				return err
			}
			res.RenamedFolders = append(res.RenamedFolders, filepath.Base(quarantined))
			continue
		}
		if err := s.RemoveAll(pair.Source); err != nil {
			return err
		}
	}

	step = "move"
	for _, pair := range plan.Moves {
		if !s.Exists(pair.Source) {
			log.Warn("move source vanished, skipping", zap.String("src", pair.Source))
			continue
		}
		if plan.Mode == domain.MergeModeClean && s.Exists(pair.Dest) {
			if err := s.RemoveAll(pair.Dest); err != nil {
				return err
			}
		}
		if err := s.Move(pair.Source, pair.Dest); err != nil {
			return err
		}
	}

	step = "index"
	if idx != nil {
		res.RemovedEntries = plan.IndexChanges.Apply(idx)
		idx.Touch(x.now())
		if err := x.deps.Index.Save(idx); err != nil {
			return err
		}
		log.Info("index updated", zap.Int("removed", len(res.RemovedEntries)), zap.Int("upserted", len(plan.IndexChanges.Upsert)))
	}

	step = "history"
	if hr := plan.HistoryRewrite; hr != nil {
		n, err := s.RewriteFile(x.layout.HistoryFile(), hr.Source, hr.Dest)
		if err != nil {
			log.Warn("history rewrite failed", zap.Error(err))
		} else {
			log.Info("history rewritten", zap.Int("replacements", n))
		}
	}

	step = "repair"
	if plan.Operation == domain.OperationMove {
		n, err := s.RepairCatalogs(plan.OldPath, plan.NewPath)
		if err != nil {
			return err
		}
		log.Debug("catalogs repaired", zap.Int("count", n))
	}
	if plan.CatalogFolder != "" && s.IsDir(plan.CatalogFolder) {
		if err := s.RelinkCatalog(plan.CatalogFolder); err != nil {
			return err
		}
		if plan.Reindex {
			if _, err := x.deps.Merger.Reindex(plan.CatalogFolder, plan.NewPath); err != nil {
				return err
			}
		}
	}

	step = "relocate"
	if r := plan.Relocate; r != nil && s.Exists(r.Source) && !s.Exists(r.Dest) {
		if err := s.Move(r.Source, r.Dest); err != nil {
			return err
		}
	}
	return nil
}

// Restore puts a backup's files back under the lock
func (x *Executor) Restore(ctx context.Context, dir string) (domain.RestoreResult, error) {
	started := x.now()
	res := &Result{Operation: domain.OperationRestore, OperationID: uuid.NewString()}
	plan := domain.OperationPlan{Operation: domain.OperationRestore, Summary: "Restore from " + dir}
	defer func() { x.record(ctx, plan, res, started) }()

	if err := x.deps.Locker.Acquire(ctx); err != nil {
		if errors.Is(err, ports.ErrLockBusy) {
			err = fmt.Errorf("%w: %v", ErrLockTimeout, err)
		}
		res.fail(err, "Could not acquire lock: %v", err)
		return domain.RestoreResult{Message: res.Message, RestoredPaths: []string{}}, err
	}
	defer x.deps.Locker.Release()

	restored := x.deps.Vault.Restore(dir)
	res.Success = restored.Success
	res.Message = restored.Message
	res.BackupPath = dir
	return restored, nil
}

func (x *Executor) loadIndex() (*domain.Index, error) {
	idx, err := x.deps.Index.Load()
	if errors.Is(err, ports.ErrNotFound) {
		return domain.NewIndex(), nil
	}
	return idx, err
}

func (x *Executor) record(ctx context.Context, plan domain.OperationPlan, res *Result, started time.Time) {
	if x.deps.Journal == nil {
		return
	}
	err := x.deps.Journal.Record(context.WithoutCancel(ctx), domain.JournalEntry{
		ID:         res.OperationID,
		Operation:  plan.Operation,
		StartedAt:  started,
		FinishedAt: x.now(),
		Success:    res.Success,
		Message:    res.Message,
		BackupPath: res.BackupPath,
		Summary:    plan.Summary,
	})
	if err != nil {
		x.logger.Warn("failed to journal operation", zap.String("id", res.OperationID), zap.Error(err))
	}
}

func (r *Result) fail(err error, format string, args ...any) {
	r.Success = false
	r.Err = err
	r.Message = fmt.Sprintf(format, args...)
}

func nothingToDo(op domain.Operation) string {
	switch op {
	case domain.OperationCleanup:
		return "No stale entries to remove."
	case domain.OperationSync:
		return "Index already up to date."
	default:
		return "Nothing to do."
	}
}

func successMessage(plan domain.OperationPlan, res *Result) string {
	switch plan.Operation {
	case domain.OperationMove:
		return fmt.Sprintf("Moved project from %s to %s", plan.OldPath, plan.NewPath)
	case domain.OperationMergeOrphan:
		return fmt.Sprintf("Merged %s into %s", plan.FolderID, plan.NewPath)
	case domain.OperationCleanup:
		return fmt.Sprintf("Removed %d stale index entries", len(res.RemovedEntries))
	case domain.OperationSync:
		return fmt.Sprintf("Synced %d projects into the index", len(plan.IndexChanges.Upsert))
	default:
		return "Done"
	}
}

func joinIssues(issues []string) string {
	if len(issues) == 1 {
		return issues[0]
	}
	return fmt.Sprintf("%d issues: %v", len(issues), issues)
}
