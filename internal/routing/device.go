package routing

import (
	"context"
	"time"

	"github.com/futurehomeno/cliffhanger/router"
	"github.com/futurehomeno/fimpgo"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/report"
	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/session"
)

const (
	CmdChannelSet       = "cmd.channel.set"
	CmdDevicesGetReport = "cmd.devices.get_report"

	commandTimeout = 2 * time.Minute
)

// ChannelSetRequest is the payload of the channel set command.
type ChannelSetRequest struct {
	DeviceID string `json:"device_id"`
	Channel  string `json:"channel"`
	Value    string `json:"value"`
}

// RouteCmdChannelSet returns a routing sending a channel command to a device.
// The response is the device record as known right after the command was accepted.
func RouteCmdChannelSet(sess session.Session) *router.Routing {
	return router.NewRouting(
		router.NewMessageHandler(
			router.MessageProcessorFn(func(message *fimpgo.Message) (*fimpgo.FimpMessage, error) {
				request := ChannelSetRequest{}

				if err := message.Payload.GetObjectValue(&request); err != nil {
					return nil, errors.Wrap(err, "routing: failed to parse channel set request")
				}

				if request.DeviceID == "" || request.Channel == "" {
					return nil, errors.New("routing: device_id and channel are required")
				}

				ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
				defer cancel()

				if err := sess.SendCommand(ctx, request.DeviceID, request.Channel, request.Value); err != nil {
					log.WithError(err).WithField("device_id", request.DeviceID).WithField("channel", request.Channel).
						Error("routing: failed to send command")

					return nil, err
				}

				record, ok := sess.Device(request.DeviceID)
				if !ok {
					return nil, nil
				}

				return report.NewDeviceReport(ServiceName, report.EvtDeviceReport, record, message.Payload), nil
			}),
		),
		router.ForService(ServiceName),
		router.ForType(CmdChannelSet),
	)
}

// RouteCmdDevicesGetReport returns a routing responding with every known device.
func RouteCmdDevicesGetReport(sess session.Session) *router.Routing {
	return router.NewRouting(
		router.NewMessageHandler(
			router.MessageProcessorFn(func(message *fimpgo.Message) (*fimpgo.FimpMessage, error) {
				return report.NewDevicesReport(ServiceName, sess.Devices(), message.Payload), nil
			}),
		),
		router.ForService(ServiceName),
		router.ForType(CmdDevicesGetReport),
	)
}
