package application

import (
	"fmt"
	"path/filepath"

	"projectkeeper/internal/domain"
	"projectkeeper/internal/ports"
)

// Surveyor gathers the filesystem facts each plan needs and hands them to the
// pure domain planner
type Surveyor struct {
	discovery *Discovery
	storage   ports.Storage
	planner   domain.Planner
	layout    domain.Layout
}

// NewSurveyor creates a Surveyor
func NewSurveyor(discovery *Discovery, storage ports.Storage, layout domain.Layout) *Surveyor {
	return &Surveyor{
		discovery: discovery,
		storage:   storage,
		planner:   domain.NewPlanner(layout),
		layout:    layout,
	}
}

func (s *Surveyor) snapshot(idx *domain.Index, candidates []string) domain.Snapshot {
	existing := make(map[string]bool, len(candidates))
	for _, p := range candidates {
		if s.storage.Exists(p) {
			existing[p] = true
		}
	}
	return domain.Snapshot{Index: idx, Existing: existing}
}

// PlanMove plans moving the project at oldPath to newPath
func (s *Surveyor) PlanMove(oldPath, newPath string, mode domain.MergeMode) (domain.OperationPlan, error) {
	idx, err := s.discovery.LoadIndex()
	if err != nil {
		return domain.OperationPlan{}, err
	}
	oldPath, newPath = filepath.Clean(oldPath), filepath.Clean(newPath)
	snap := s.snapshot(idx, s.planner.MoveCandidates(oldPath, newPath))
	return s.planner.PlanMove(snap, oldPath, newPath, mode), nil
}

// PlanMergeOrphan plans folding orphan folder folderID into target
func (s *Surveyor) PlanMergeOrphan(folderID, target string) (domain.OperationPlan, error) {
	idx, err := s.discovery.LoadIndex()
	if err != nil {
		return domain.OperationPlan{}, err
	}
	target = filepath.Clean(target)

	facts := s.storage.DiscoverFolder(s.layout.StorageFolder(folderID))
	snap := s.snapshot(idx, s.planner.MergeOrphanCandidates(folderID, target, facts.Path))
	snap.OrphanPath = facts.Path
	snap.OrphanWorkDays = facts.WorkDays
	return s.planner.PlanMergeOrphan(snap, folderID, target), nil
}

// PlanCleanup plans removing stale index entries
func (s *Surveyor) PlanCleanup() (domain.OperationPlan, error) {
	idx, err := s.discovery.LoadIndex()
	if err != nil {
		return domain.OperationPlan{}, err
	}
	snap := s.snapshot(idx, []string{s.layout.IndexFile()})
	snap.Stale = s.discovery.FindStaleEntries(idx)
	return s.planner.PlanCleanup(snap), nil
}

// PlanSync plans adding every discoverable project to the index
func (s *Surveyor) PlanSync() (domain.OperationPlan, error) {
	idx, err := s.discovery.LoadIndex()
	if err != nil {
		return domain.OperationPlan{}, err
	}
	facts, err := s.discovery.DiscoverFolders()
	if err != nil {
		return domain.OperationPlan{}, fmt.Errorf("failed to scan storage: %w", err)
	}
	snap := s.snapshot(idx, []string{s.layout.IndexFile()})
	snap.Discovered = facts
	return s.planner.PlanSync(snap), nil
}
