package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"citydash/backend/services/dashboard-service/internal/models"
	"citydash/backend/services/dashboard-service/internal/repository"
)

type fakeStatsStore struct {
	mu      sync.Mutex
	nextID  int64
	batches []models.StatsBatch
	err     error
}

func (f *fakeStatsStore) SaveBatch(_ context.Context, batch models.StatsBatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if batch.Energy != nil {
		f.nextID++
		batch.Energy.ID = f.nextID
	}
	if batch.Waste != nil {
		f.nextID++
		batch.Waste.ID = f.nextID
	}
	f.batches = append(f.batches, batch)
	return nil
}

func (f *fakeStatsStore) LatestEnergy(context.Context) (*models.EnergyLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for i := len(f.batches) - 1; i >= 0; i-- {
		if f.batches[i].Energy != nil {
			return f.batches[i].Energy, nil
		}
	}
	return nil, nil
}

func (f *fakeStatsStore) LatestWaste(context.Context) (*models.WasteLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for i := len(f.batches) - 1; i >= 0; i-- {
		if f.batches[i].Waste != nil {
			return f.batches[i].Waste, nil
		}
	}
	return nil, nil
}

type fakeTrafficStore struct {
	mu   sync.Mutex
	logs []*models.TrafficLog
	err  error
}

func (f *fakeTrafficStore) Insert(_ context.Context, log *models.TrafficLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	log.ID = int64(len(f.logs) + 1)
	log.CreatedAt = time.Now()
	f.logs = append(f.logs, log)
	return nil
}

func (f *fakeTrafficStore) Latest(context.Context) (*models.TrafficLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if len(f.logs) == 0 {
		return nil, nil
	}
	return f.logs[len(f.logs)-1], nil
}

type analyzerFunc func(ctx context.Context, location string) ([]byte, error)

func (f analyzerFunc) Analyze(ctx context.Context, location string) ([]byte, error) {
	return f(ctx, location)
}

type fakeReportStore struct {
	mu      sync.Mutex
	reports []models.CitizenReport
	err     error
}

func (f *fakeReportStore) Create(_ context.Context, report *models.CitizenReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	now := time.Now().UTC()
	report.ID = int64(len(f.reports) + 1)
	report.CreatedAt = now
	report.UpdatedAt = now
	f.reports = append(f.reports, *report)
	return nil
}

func (f *fakeReportStore) GetByID(_ context.Context, id int64) (*models.CitizenReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.reports {
		if f.reports[i].ID == id {
			r := f.reports[i]
			return &r, nil
		}
	}
	return nil, repository.ErrReportNotFound
}

func (f *fakeReportStore) List(_ context.Context, filter models.ReportFilter) ([]models.CitizenReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.CitizenReport, 0)
	for _, r := range f.reports {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.IssueType != "" && r.IssueType != filter.IssueType {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeReportStore) Update(_ context.Context, id int64, patch models.ReportPatch) (*models.CitizenReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.reports {
		r := &f.reports[i]
		if r.ID != id {
			continue
		}
		if patch.Status != nil {
			r.Status = *patch.Status
		}
		if patch.Description != nil {
			r.Description = *patch.Description
		}
		r.UpdatedAt = time.Now().UTC()
		out := *r
		return &out, nil
	}
	return nil, repository.ErrReportNotFound
}

func (f *fakeReportStore) CountByStatus(_ context.Context, status models.ReportStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	var n int64
	for _, r := range f.reports {
		if r.Status == status {
			n++
		}
	}
	return n, nil
}

func (f *fakeReportStore) Recent(_ context.Context, limit int) ([]models.CitizenReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := append([]models.CitizenReport(nil), f.reports...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeReportStore) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	return int64(len(f.reports)), nil
}

type recordingDispatcher struct {
	mu      sync.Mutex
	reports []models.CitizenReport
}

func (d *recordingDispatcher) Dispatch(report models.CitizenReport) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reports = append(d.reports, report)
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.reports)
}

type fakeSubscriberStore struct {
	mu   sync.Mutex
	subs []models.Subscriber
	err  error
}

func (f *fakeSubscriberStore) Create(_ context.Context, sub *models.Subscriber) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, s := range f.subs {
		if s.Email == sub.Email {
			return repository.ErrDuplicateEmail
		}
	}
	sub.ID = int64(len(f.subs) + 1)
	sub.CreatedAt = time.Now().UTC()
	f.subs = append(f.subs, *sub)
	return nil
}

func (f *fakeSubscriberStore) List(context.Context) ([]models.Subscriber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Subscriber{}, f.subs...), nil
}
