package tasks

import (
	"github.com/futurehomeno/cliffhanger/app"
	"github.com/futurehomeno/cliffhanger/lifecycle"
	"github.com/futurehomeno/cliffhanger/task"
)

// New returns a set of background tasks of an application.
// Device polling is driven by the session timer, the application task keeps the lifecycle states up to date.
func New(
	appLifecycle *lifecycle.Lifecycle,
	application app.App,
) []*task.Task {
	return task.Combine[[]*task.Task](
		app.TaskApp(application, appLifecycle),
	)
}
