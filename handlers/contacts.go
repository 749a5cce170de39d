// handlers/contacts.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"p9e.in/fieldvisits/config"
	"p9e.in/fieldvisits/pkg/reporting"
)

// CompanyContacts feeds the dependent contact dropdown: the contacts of one
// company, ordered by name. An unknown company yields an empty list.
func CompanyContacts(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid company id", http.StatusBadRequest)
		return
	}

	svc := reporting.NewService(config.DB)
	contacts, err := svc.ContactsForCompany(id)
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	type contactOut struct {
		ID          uuid.UUID `json:"id"`
		ContactName string    `json:"contactName"`
	}
	out := make([]contactOut, len(contacts))
	for i, c := range contacts {
		out[i] = contactOut{ID: c.ID, ContactName: c.ContactName}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// ContactDetails returns the snapshot fields the form auto-fills when a
// contact is selected: the phone number and the company designation.
func ContactDetails(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid contact id", http.StatusBadRequest)
		return
	}

	svc := reporting.NewService(config.DB)
	snap, err := svc.SnapshotForContact(id)
	if errors.Is(err, reporting.ErrContactNotFound) {
		http.Error(w, "contact not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}
