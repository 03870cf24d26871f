package registry

import (
	log "github.com/sirupsen/logrus"

	"github.com/futurehomeno/edge-vwcarnet-adapter/internal/model"
)

// BuildInstallations reconciles the installation listing with the configured PIN codes.
// PIN codes are matched by position. When their number does not match the number of installations,
// the first PIN code is applied to every installation. Entries without an id or a name are skipped.
func BuildInstallations(entries []model.Installation, pinCodes []string) []model.Installation {
	valid := make([]model.Installation, 0, len(entries))

	for _, entry := range entries {
		if entry.ID == "" || entry.Name == "" {
			log.WithField("giid", entry.ID).WithField("alias", entry.Name).
				Warn("registry: skipping installation with missing giid or alias")

			continue
		}

		valid = append(valid, model.Installation{ID: entry.ID, Name: entry.Name})
	}

	if len(pinCodes) == 0 {
		return valid
	}

	if len(pinCodes) != len(valid) {
		log.WithField("pin_codes", len(pinCodes)).WithField("installations", len(valid)).
			Warn("registry: number of pin codes does not match number of installations, using the first pin code for all")

		for i := range valid {
			valid[i].PinCode = pinCodes[0]
		}

		return valid
	}

	for i := range valid {
		valid[i].PinCode = pinCodes[i]
	}

	return valid
}
