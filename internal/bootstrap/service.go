package bootstrap

import (
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/services/query"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mlog"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mopentelemetry"
)

// Service is the bridge process: the outbox submitter, the projector and the
// ops HTTP server, launched together.
type Service struct {
	Submitter *SubmitterWorker
	Projector *ProjectorWorker
	Server    *Server

	// Query is exported for the API tier embedding this module.
	Query *query.UseCase

	Logger    mlog.Logger
	Telemetry *mopentelemetry.Telemetry
}

// Run starts every app under the launcher and blocks until they finish.
func (s *Service) Run() {
	pkg.NewLauncher(
		pkg.WithLogger(s.Logger),
		pkg.RunApp("submitter", s.Submitter),
		pkg.RunApp("projector", s.Projector),
		pkg.RunApp("ops-server", s.Server),
	).Run()
}
