package poller

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/api"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/model"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/registry"
)

// Result summarizes a poll.
type Result struct {
	// Failed is the number of sub-resources that could not be polled.
	Failed int
	// Pending is set when a smart lock has not reached its target state yet.
	Pending bool
}

func (r *Result) merge(other Result) {
	r.Failed += other.Failed
	r.Pending = r.Pending || other.Pending
}

// Poller fetches every sub-resource and reconciles it into the store.
type Poller interface {
	// PollInstallation selects the installation and polls all of its kinds.
	// An error is returned only when the installation could not be selected.
	PollInstallation(ctx context.Context, username string, installation model.Installation) (Result, error)
	// PollVehicles polls status, latest trip and position of every vehicle.
	PollVehicles(ctx context.Context, ps *api.PortalSession, vehicles []model.VehicleInfo) Result
}

type poller struct {
	security api.SecurityClient
	vehicles api.VehicleClient
	store    registry.Store
}

// New creates a new poller.
func New(security api.SecurityClient, vehicles api.VehicleClient, store registry.Store) Poller {
	return &poller{
		security: security,
		vehicles: vehicles,
		store:    store,
	}
}

func (p *poller) PollInstallation(ctx context.Context, username string, installation model.Installation) (Result, error) {
	if _, err := api.PrepareInstallation(ctx, p.security, username, installation.ID); err != nil {
		return Result{}, err
	}

	var result Result

	for _, src := range installationSources {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		records, err := p.fetch(ctx, src, installation)
		if err != nil {
			result.Failed++

			log.WithError(err).
				WithField("kind", src.kind).
				WithField("giid", installation.ID).
				Warn("poller: failed to poll, skipping")

			continue
		}

		if src.kind == model.KindSmartLock {
			p.attachSmartLockDetails(ctx, records)
		}

		result.merge(p.reconcile(records))

		if src.list {
			p.store.Prune(src.kind, installation.ID, deviceIDs(records))
		}
	}

	return result, nil
}

func (p *poller) fetch(ctx context.Context, src source, installation model.Installation) ([]model.DeviceRecord, error) {
	op := src.operation(installation.ID)

	body, err := p.security.Query(ctx, op)
	if err != nil {
		return nil, err
	}

	return src.decode(installation, gjson.GetBytes(body, op.DataPath(src.field)))
}

func (p *poller) attachSmartLockDetails(ctx context.Context, records []model.DeviceRecord) {
	for _, record := range records {
		lock, ok := record.Payload.(*model.SmartLock)
		if !ok {
			continue
		}

		details, err := p.security.SmartLockDetails(ctx, lock.Device.DeviceLabel)
		if err != nil {
			log.WithError(err).WithField("device_id", record.DeviceID).Debug("poller: failed to get smart lock details")

			// Keep the last known details.
			if stored, ok := p.store.Get(record.DeviceID); ok {
				if previous, ok := stored.Payload.(*model.SmartLock); ok {
					lock.Details = previous.Details
				}
			}

			continue
		}

		lock.Details = details
	}
}

func (p *poller) PollVehicles(ctx context.Context, ps *api.PortalSession, vehicles []model.VehicleInfo) Result {
	var result Result

	for _, info := range vehicles {
		if ctx.Err() != nil {
			result.Failed++

			break
		}

		installation := model.Installation{ID: model.Normalize(info.VIN), Name: info.Name}

		if err := p.vehicles.SelectVehicle(ctx, ps, info.VIN); err != nil {
			result.Failed++

			log.WithError(err).WithField("vin", info.VIN).Warn("poller: failed to select vehicle, skipping")

			continue
		}

		for _, poll := range []struct {
			kind  model.Kind
			id    string
			fetch func() (model.Payload, error)
		}{
			{
				kind: model.KindVehicle,
				id:   info.VIN,
				fetch: func() (model.Payload, error) {
					return p.vehicles.VehicleStatus(ctx, ps, info)
				},
			},
			{
				kind: model.KindTrip,
				id:   "trip" + info.VIN,
				fetch: func() (model.Payload, error) {
					return p.vehicles.LatestTrip(ctx, ps, info)
				},
			},
			{
				kind: model.KindLocation,
				id:   "location" + info.VIN,
				fetch: func() (model.Payload, error) {
					return p.vehicles.Position(ctx, ps, info)
				},
			},
		} {
			payload, err := poll.fetch()
			if err != nil {
				result.Failed++

				log.WithError(err).WithField("kind", poll.kind).WithField("vin", info.VIN).Warn("poller: failed to poll vehicle, skipping")

				continue
			}

			result.merge(p.reconcile([]model.DeviceRecord{newRecord(installation, poll.kind, poll.id, info.Name, "", payload)}))
		}
	}

	return result
}

// PruneVehicles removes records of vehicles no longer listed for the account.
func PruneVehicles(store registry.Store, previous, current []model.VehicleInfo) {
	listed := make(map[string]struct{}, len(current))
	for _, info := range current {
		listed[info.VIN] = struct{}{}
	}

	for _, info := range previous {
		if _, ok := listed[info.VIN]; ok {
			continue
		}

		giid := model.Normalize(info.VIN)

		for _, kind := range []model.Kind{model.KindVehicle, model.KindTrip, model.KindLocation} {
			store.Prune(kind, giid, nil)
		}
	}
}

func (p *poller) reconcile(records []model.DeviceRecord) Result {
	var result Result

	for _, record := range records {
		if lock, ok := record.Payload.(*model.SmartLock); ok && lock.Pending() {
			result.Pending = true
		}

		if _, err := p.store.Upsert(record); err != nil {
			result.Failed++

			log.WithError(err).WithField("device_id", record.DeviceID).Error("poller: failed to store record")
		}
	}

	return result
}

func deviceIDs(records []model.DeviceRecord) []string {
	ids := make([]string, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.DeviceID)
	}

	return ids
}
