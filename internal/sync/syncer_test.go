package sync

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fleet-tracker/internal/event"
	"fleet-tracker/internal/model"
	"fleet-tracker/internal/telematics"
)

type fakeSource struct {
	name    string
	records []telematics.Record
	err     error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(ctx context.Context) ([]telematics.Record, error) {
	return f.records, f.err
}

type mockVehicleWriter struct {
	mock.Mock
}

func (m *mockVehicleWriter) FindBySource(ctx context.Context, orgID, sourceSystem, externalID string) (model.Vehicle, error) {
	args := m.Called(ctx, orgID, sourceSystem, externalID)
	return args.Get(0).(model.Vehicle), args.Error(1)
}

func (m *mockVehicleWriter) Upsert(ctx context.Context, v model.Vehicle) (string, error) {
	args := m.Called(ctx, v)
	return args.String(0), args.Error(1)
}

type mockPositionWriter struct {
	mock.Mock
}

func (m *mockPositionWriter) Insert(ctx context.Context, p model.VehiclePosition) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

type mockJobLister struct {
	mock.Mock
}

func (m *mockJobLister) ListByOrganization(ctx context.Context, orgID string) ([]model.Job, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).([]model.Job), args.Error(1)
}

const testOrg = "org-1"

func testRecord() telematics.Record {
	return telematics.Record{
		ExternalID:     "sam-100",
		SourceSystem:   "samsara",
		SourceCategory: telematics.CategoryVehiclesV2,
		Name:           "Excavator 12",
		Type:           "excavator",
		Latitude:       40.0,
		Longitude:      -74.0,
		RecordedAt:     time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
	}
}

func TestSyncerSkipsDeletedVehicles(t *testing.T) {
	vehicles := new(mockVehicleWriter)
	positions := new(mockPositionWriter)
	jobs := new(mockJobLister)

	jobs.On("ListByOrganization", mock.Anything, testOrg).Return([]model.Job{}, nil)

	deletedAt := time.Now().UTC()
	vehicles.On("FindBySource", mock.Anything, testOrg, "samsara", "sam-100").Return(model.Vehicle{
		ID:             "veh-1",
		OrganizationID: testOrg,
		ExternalID:     "sam-100",
		SourceSystem:   "samsara",
		IsDeleted:      true,
		DeletedAt:      &deletedAt,
	}, nil)

	source := &fakeSource{name: "samsara", records: []telematics.Record{testRecord()}}
	syncer := New(testOrg, []telematics.Source{source}, vehicles, positions, jobs, event.NewBus(), nil)

	stats, err := syncer.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 0, stats.Positions)
	vehicles.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	positions.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestSyncerCreatesNewVehicleWithPosition(t *testing.T) {
	vehicles := new(mockVehicleWriter)
	positions := new(mockPositionWriter)
	jobs := new(mockJobLister)

	// Two job sites; the record at (40, -74) is near site-a.
	jobs.On("ListByOrganization", mock.Anything, testOrg).Return([]model.Job{
		{ID: "job-a", JobCode: "site-a", Latitude: 40.1, Longitude: -74.1},
		{ID: "job-b", JobCode: "site-b", Latitude: 34.0, Longitude: -118.2},
	}, nil)

	vehicles.On("FindBySource", mock.Anything, testOrg, "samsara", "sam-100").Return(model.Vehicle{}, model.ErrVehicleNotFound)
	vehicles.On("Upsert", mock.Anything, mock.MatchedBy(func(v model.Vehicle) bool {
		return v.ExternalID == "sam-100" && v.OrganizationID == testOrg && v.Name == "Excavator 12"
	})).Return("veh-new", nil)
	positions.On("Insert", mock.Anything, mock.MatchedBy(func(p model.VehiclePosition) bool {
		return p.VehicleID == "veh-new" && p.JobID != nil && *p.JobID == "job-a"
	})).Return(nil)

	bus := event.NewBus()
	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	source := &fakeSource{name: "samsara", records: []telematics.Record{testRecord()}}
	syncer := New(testOrg, []telematics.Source{source}, vehicles, positions, jobs, bus, nil)

	stats, err := syncer.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Created)
	assert.Equal(t, 1, stats.Positions)
	vehicles.AssertExpectations(t)
	positions.AssertExpectations(t)

	var types []event.Type
	for len(events) > 0 {
		types = append(types, (<-events).Type)
	}
	assert.Contains(t, types, event.TypeVehicleCreated)
	assert.Contains(t, types, event.TypePositionUpdated)
}

func TestSyncerUpdatesKnownVehicle(t *testing.T) {
	vehicles := new(mockVehicleWriter)
	positions := new(mockPositionWriter)
	jobs := new(mockJobLister)

	jobs.On("ListByOrganization", mock.Anything, testOrg).Return([]model.Job{}, nil)
	vehicles.On("FindBySource", mock.Anything, testOrg, "samsara", "sam-100").Return(model.Vehicle{
		ID:           "veh-1",
		ExternalID:   "sam-100",
		SourceSystem: "samsara",
	}, nil)
	vehicles.On("Upsert", mock.Anything, mock.Anything).Return("veh-1", nil)
	positions.On("Insert", mock.Anything, mock.MatchedBy(func(p model.VehiclePosition) bool {
		return p.VehicleID == "veh-1" && p.JobID == nil
	})).Return(nil)

	source := &fakeSource{name: "samsara", records: []telematics.Record{testRecord()}}
	syncer := New(testOrg, []telematics.Source{source}, vehicles, positions, jobs, event.NewBus(), nil)

	stats, err := syncer.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Updated)
	assert.Equal(t, 0, stats.Created)
	assert.Equal(t, 1, stats.Positions)
}

func TestSyncerSkipsOnConcurrentDelete(t *testing.T) {
	vehicles := new(mockVehicleWriter)
	positions := new(mockPositionWriter)
	jobs := new(mockJobLister)

	jobs.On("ListByOrganization", mock.Anything, testOrg).Return([]model.Job{}, nil)
	vehicles.On("FindBySource", mock.Anything, testOrg, "samsara", "sam-100").Return(model.Vehicle{
		ID: "veh-1",
	}, nil)
	// Deleted between lookup and write.
	vehicles.On("Upsert", mock.Anything, mock.Anything).Return("", model.ErrVehicleDeleted)

	source := &fakeSource{name: "samsara", records: []telematics.Record{testRecord()}}
	syncer := New(testOrg, []telematics.Source{source}, vehicles, positions, jobs, event.NewBus(), nil)

	stats, err := syncer.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 0, stats.Failed)
	positions.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestSyncerDedupesAcrossSources(t *testing.T) {
	vehicles := new(mockVehicleWriter)
	positions := new(mockPositionWriter)
	jobs := new(mockJobLister)

	jobs.On("ListByOrganization", mock.Anything, testOrg).Return([]model.Job{}, nil)
	vehicles.On("FindBySource", mock.Anything, testOrg, "samsara", "sam-100").Return(model.Vehicle{}, model.ErrVehicleNotFound).Once()
	vehicles.On("Upsert", mock.Anything, mock.Anything).Return("veh-new", nil).Once()
	positions.On("Insert", mock.Anything, mock.Anything).Return(nil).Once()

	vehicleRecord := testRecord()
	assetRecord := testRecord()
	assetRecord.SourceCategory = telematics.CategoryAssetsV1

	source := &fakeSource{name: "samsara", records: []telematics.Record{vehicleRecord, assetRecord}}
	syncer := New(testOrg, []telematics.Source{source}, vehicles, positions, jobs, event.NewBus(), nil)

	stats, err := syncer.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Fetched)
	assert.Equal(t, 1, stats.Deduped)
	assert.Equal(t, 1, stats.Positions)
	vehicles.AssertExpectations(t)
	positions.AssertExpectations(t)
}

func TestSyncerFailsWhenAllSourcesFail(t *testing.T) {
	vehicles := new(mockVehicleWriter)
	positions := new(mockPositionWriter)
	jobs := new(mockJobLister)

	source := &fakeSource{name: "samsara", err: assert.AnError}
	syncer := New(testOrg, []telematics.Source{source}, vehicles, positions, jobs, event.NewBus(), nil)

	_, err := syncer.RunOnce(context.Background())
	assert.Error(t, err)
}
