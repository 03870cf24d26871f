// Package report publishes device registry changes as FIMP events.
package report

import (
	"github.com/futurehomeno/fimpgo"
	log "github.com/sirupsen/logrus"

	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/model"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/registry"
)

// Event types published by the reporter.
const (
	EvtDeviceAdded   = "evt.device.added"
	EvtDeviceReport  = "evt.device.report"
	EvtDeviceRemoved = "evt.device.removed"
	EvtDevicesReport = "evt.devices.report"
)

// Publisher sends FIMP messages, implemented by *fimpgo.MqttTransport.
type Publisher interface {
	Publish(addr *fimpgo.Address, msg *fimpgo.FimpMessage) error
}

// Reporter is a registry subscriber publishing every change on the adapter topic.
type Reporter interface {
	registry.Subscriber
}

type reporter struct {
	publisher   Publisher
	serviceName string
	address     fimpgo.Address
}

// NewReporter creates a new FIMP reporter.
func NewReporter(publisher Publisher, serviceName string) Reporter {
	return &reporter{
		publisher:   publisher,
		serviceName: serviceName,
		address: fimpgo.Address{
			MsgType:         fimpgo.MsgTypeEvt,
			ResourceType:    fimpgo.ResourceTypeAdapter,
			ResourceName:    serviceName,
			ResourceAddress: "1",
		},
	}
}

func (r *reporter) OnDeviceAdded(record model.DeviceRecord) {
	r.publish(EvtDeviceAdded, record)
}

func (r *reporter) OnDeviceChanged(record model.DeviceRecord) {
	r.publish(EvtDeviceReport, record)
}

func (r *reporter) OnDeviceRemoved(record model.DeviceRecord) {
	r.publish(EvtDeviceRemoved, record)
}

func (r *reporter) publish(eventType string, record model.DeviceRecord) {
	msg := NewDeviceReport(r.serviceName, eventType, record, nil)
	addr := r.address

	if err := r.publisher.Publish(&addr, msg); err != nil {
		log.WithError(err).WithField("device_id", record.DeviceID).WithField("type", eventType).
			Error("report: failed to publish device event")
	}
}

// NewDeviceReport builds a device event, correlated with the request if one is given.
func NewDeviceReport(serviceName, eventType string, record model.DeviceRecord, request *fimpgo.FimpMessage) *fimpgo.FimpMessage {
	return fimpgo.NewMessage(eventType, serviceName, fimpgo.VTypeObject, record, nil, nil, request)
}

// NewDevicesReport builds a report of all records, an empty list is sent as an empty array.
func NewDevicesReport(serviceName string, records []model.DeviceRecord, request *fimpgo.FimpMessage) *fimpgo.FimpMessage {
	if records == nil {
		records = []model.DeviceRecord{}
	}

	return fimpgo.NewMessage(EvtDevicesReport, serviceName, fimpgo.VTypeObject, records, nil, nil, request)
}
