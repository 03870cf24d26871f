package registry

import (
	"sort"
	"sync"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/michalkurzeja/go-clock"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/metrics"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/model"
)

// ErrIDCollision is returned when a record reuses the id of a record of another kind.
var ErrIDCollision = errors.New("device id is already used by a device of another kind")

// Change describes the outcome of an upsert.
type Change int

const (
	Unchanged Change = iota
	Added
	Changed
)

const (
	eventAdded   = "added"
	eventChanged = "changed"
	eventRemoved = "removed"
)

// Subscriber is notified about device changes. Notifications are delivered synchronously,
// in the order subscribers were added, with copies of the stored records.
type Subscriber interface {
	OnDeviceAdded(record model.DeviceRecord)
	OnDeviceChanged(record model.DeviceRecord)
	OnDeviceRemoved(record model.DeviceRecord)
}

// Store keeps the latest record of every device and vehicle.
type Store interface {
	// Upsert stores the record when it differs from the stored one and notifies subscribers.
	Upsert(record model.DeviceRecord) (Change, error)
	// Prune removes records of the kind and installation whose ids are not listed in keep.
	Prune(kind model.Kind, installationID string, keep []string) []model.DeviceRecord
	// Get returns a copy of the record.
	Get(deviceID string) (model.DeviceRecord, bool)
	// All returns copies of all records ordered by id.
	All() []model.DeviceRecord
	// Clear drops every record and notifies subscribers about each removal.
	Clear() []model.DeviceRecord
	// Subscribe adds a subscriber, returning false if it was already added.
	Subscribe(s Subscriber) bool
	// Unsubscribe removes a subscriber, returning false if it was not added.
	Unsubscribe(s Subscriber) bool
}

type store struct {
	mu          sync.RWMutex
	records     map[string]model.DeviceRecord
	subscribers []Subscriber
}

// NewStore creates an empty device store.
func NewStore() Store {
	return &store{records: make(map[string]model.DeviceRecord)}
}

var recordComparer = cmp.Options{
	cmpopts.IgnoreFields(model.DeviceRecord{}, "UpdatedAt"),
	cmpopts.EquateEmpty(),
}

// Equal reports whether two records carry the same data. Update times are ignored.
func Equal(a, b model.DeviceRecord) bool {
	return cmp.Equal(a, b, recordComparer)
}

func (s *store) Upsert(record model.DeviceRecord) (Change, error) {
	s.mu.Lock()

	stored, exists := s.records[record.DeviceID]
	if exists && stored.Kind != record.Kind {
		s.mu.Unlock()

		return Unchanged, errors.Wrapf(ErrIDCollision, "id %s, kinds %s and %s", record.DeviceID, stored.Kind, record.Kind)
	}

	if exists && Equal(stored, record) {
		s.mu.Unlock()

		return Unchanged, nil
	}

	record = record.Clone()
	record.UpdatedAt = clock.Now()
	s.records[record.DeviceID] = record

	s.updateGauge(record.Kind)
	subscribers := s.copySubscribers()

	s.mu.Unlock()

	if !exists {
		if log.IsLevelEnabled(log.DebugLevel) {
			log.WithField("device_id", record.DeviceID).WithField("kind", record.Kind).Debug("registry: device added")
		}

		s.notify(subscribers, record, eventAdded)

		return Added, nil
	}

	log.WithField("device_id", record.DeviceID).Trace("registry: device changed")

	s.notify(subscribers, record, eventChanged)

	return Changed, nil
}

func (s *store) Prune(kind model.Kind, installationID string, keep []string) []model.DeviceRecord {
	keepSet := make(map[string]struct{}, len(keep))
	for _, id := range keep {
		keepSet[id] = struct{}{}
	}

	s.mu.Lock()

	var removed []model.DeviceRecord

	for id, record := range s.records {
		if record.Kind != kind || record.InstallationID != installationID {
			continue
		}

		if _, ok := keepSet[id]; ok {
			continue
		}

		delete(s.records, id)
		removed = append(removed, record)
	}

	sortRecords(removed)
	s.updateGauge(kind)
	subscribers := s.copySubscribers()

	s.mu.Unlock()

	for _, record := range removed {
		log.WithField("device_id", record.DeviceID).WithField("kind", record.Kind).Info("registry: device removed")

		s.notify(subscribers, record.Clone(), eventRemoved)
	}

	return removed
}

func (s *store) Get(deviceID string) (model.DeviceRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[deviceID]
	if !ok {
		return model.DeviceRecord{}, false
	}

	return record.Clone(), true
}

func (s *store) All() []model.DeviceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]model.DeviceRecord, 0, len(s.records))
	for _, record := range s.records {
		records = append(records, record.Clone())
	}

	sortRecords(records)

	return records
}

func (s *store) Clear() []model.DeviceRecord {
	s.mu.Lock()

	removed := make([]model.DeviceRecord, 0, len(s.records))
	kinds := make(map[model.Kind]struct{})

	for _, record := range s.records {
		removed = append(removed, record)
		kinds[record.Kind] = struct{}{}
	}

	s.records = make(map[string]model.DeviceRecord)

	for kind := range kinds {
		s.updateGauge(kind)
	}

	sortRecords(removed)
	subscribers := s.copySubscribers()

	s.mu.Unlock()

	for _, record := range removed {
		log.WithField("device_id", record.DeviceID).WithField("kind", record.Kind).Info("registry: device removed")

		s.notify(subscribers, record.Clone(), eventRemoved)
	}

	return removed
}

func (s *store) Subscribe(subscriber Subscriber) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.subscribers {
		if existing == subscriber {
			return false
		}
	}

	s.subscribers = append(s.subscribers, subscriber)

	return true
}

func (s *store) Unsubscribe(subscriber Subscriber) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.subscribers {
		if existing == subscriber {
			s.subscribers = append(s.subscribers[:i:i], s.subscribers[i+1:]...)

			return true
		}
	}

	return false
}

func (s *store) notify(subscribers []Subscriber, record model.DeviceRecord, event string) {
	metrics.NotificationCounter.WithLabelValues(record.Kind.String(), event).Inc()

	for _, subscriber := range subscribers {
		switch event {
		case eventAdded:
			subscriber.OnDeviceAdded(record.Clone())
		case eventChanged:
			subscriber.OnDeviceChanged(record.Clone())
		case eventRemoved:
			subscriber.OnDeviceRemoved(record.Clone())
		}
	}
}

// copySubscribers must be called with the lock held.
func (s *store) copySubscribers() []Subscriber {
	return append([]Subscriber(nil), s.subscribers...)
}

// updateGauge must be called with the lock held.
func (s *store) updateGauge(kind model.Kind) {
	count := 0

	for _, record := range s.records {
		if record.Kind == kind {
			count++
		}
	}

	metrics.DevicesGauge.WithLabelValues(kind.String()).Set(float64(count))
}

func sortRecords(records []model.DeviceRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].DeviceID < records[j].DeviceID
	})
}
