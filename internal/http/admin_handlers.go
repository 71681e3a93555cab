package http

import (
	"net/http"

	"github.com/lumiclabs/EventHub/internal/domain"
	"golang.org/x/sync/errgroup"
)

const recentLimit = 5

type adminDashboard struct {
	TotalUsers    int
	TotalEvents   int
	TotalBookings int

	RecentUsers    []domain.User
	RecentEvents   []domain.Event
	RecentBookings []domain.Booking
}

// AdminDashboard renders the read-only aggregate view. The six queries are
// independent, so they fan out on an errgroup.
func (h *Handlers) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	var dash adminDashboard

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		dash.TotalUsers, err = h.repo.CountUsers(ctx)
		return
	})
	g.Go(func() (err error) {
		dash.TotalEvents, err = h.repo.CountEvents(ctx)
		return
	})
	g.Go(func() (err error) {
		dash.TotalBookings, err = h.repo.CountBookings(ctx)
		return
	})
	g.Go(func() (err error) {
		dash.RecentUsers, err = h.repo.RecentUsers(ctx, recentLimit)
		return
	})
	g.Go(func() (err error) {
		dash.RecentEvents, err = h.repo.RecentEvents(ctx, recentLimit)
		return
	})
	g.Go(func() (err error) {
		dash.RecentBookings, err = h.repo.RecentBookings(ctx, recentLimit)
		return
	})
	if err := g.Wait(); err != nil {
		h.serverError(w, r, err)
		return
	}

	td := h.newTemplateData(r)
	td.Data = dash
	h.render(w, http.StatusOK, "admin_dashboard.tmpl", td)
}
