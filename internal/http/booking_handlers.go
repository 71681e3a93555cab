package http

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/lumiclabs/EventHub/internal/domain"
	"github.com/lumiclabs/EventHub/internal/observability"
)

// BookEvent claims one ticket. The availability check and decrement happen
// atomically in the repository; this handler only translates outcomes into
// flashes and redirects.
func (h *Handlers) BookEvent(w http.ResponseWriter, r *http.Request) {
	state := sessionFrom(r)
	event, ok := h.eventFromPath(w, r)
	if !ok {
		return
	}

	booking := domain.NewBooking(event, state.sess.UserID, 1)
	err := h.repo.CreateBooking(r.Context(), &booking)
	switch {
	case err == nil:
		observability.BookingsTotal.Inc()
		h.audit.LogBooking(r.Context(), booking)
		h.flash(r, "success", "Booking successful! Your booking number: "+booking.BookingNumber)
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)

	case errors.Is(err, domain.ErrOwnEvent):
		observability.BookingRejections.WithLabelValues("own_event").Inc()
		h.flash(r, "danger", "You cannot book your own event!")
		http.Redirect(w, r, "/event/"+event.ID.String(), http.StatusSeeOther)

	case errors.Is(err, domain.ErrSoldOut):
		observability.BookingRejections.WithLabelValues("sold_out").Inc()
		h.flash(r, "danger", "No tickets available!")
		http.Redirect(w, r, "/event/"+event.ID.String(), http.StatusSeeOther)

	case errors.Is(err, domain.ErrSerializationFailure):
		observability.BookingRejections.WithLabelValues("contention").Inc()
		h.flash(r, "danger", "The event was very busy, please try again.")
		http.Redirect(w, r, "/event/"+event.ID.String(), http.StatusSeeOther)

	case errors.Is(err, domain.ErrNotFound):
		http.NotFound(w, r)

	default:
		h.serverError(w, r, err)
	}
}
