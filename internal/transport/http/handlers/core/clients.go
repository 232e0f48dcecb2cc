package corehandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"hrportal/internal/domain/core"
	"hrportal/internal/transport/http/shared"
	"hrportal/internal/transport/http/web"
)

const clientsPath = "/hr/clients"

type clientsPage struct {
	Clients []core.Client
}

func (h *Handler) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Registry.ListClients(r.Context())
	if err != nil {
		h.Render.Fault(w, r, err)
		return
	}
	h.Render.Render(w, r, http.StatusOK, "clients", "Clients", clientsPage{Clients: clients})
}

func (h *Handler) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	form, err := shared.ParseForm(r)
	if err != nil {
		web.Redirect(w, r, clientsPath, web.Warning("The form could not be read."))
		return
	}
	in := core.ClientInput{
		Name:          form.RequiredString("name"),
		Address:       form.String("address"),
		ContactPerson: form.String("contact_person"),
		Phone:         form.String("phone"),
	}
	if form.HasIssues() {
		web.Redirect(w, r, clientsPath, web.Warning("Please fix: "+form.Message()+"."))
		return
	}

	c, err := h.Registry.CreateClientWithAccount(r.Context(), in)
	if err != nil {
		h.fail(w, r, err, clientsPath)
		return
	}
	h.Audit.Log(r.Context(), "client.create", "client", c.ID, nil, c)
	web.Redirect(w, r, clientsPath, web.Success("Client "+c.Name+" created. Login username: "+c.Username+"."))
}

func (h *Handler) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	c, err := h.Registry.DeleteClient(r.Context(), chi.URLParam(r, "clientID"))
	if err != nil {
		h.fail(w, r, err, clientsPath)
		return
	}
	h.Audit.Log(r.Context(), "client.delete", "client", c.ID, c, nil)
	web.Redirect(w, r, clientsPath, web.Success("Client "+c.Name+" and its login were deleted."))
}

type contractsPage struct {
	Client    core.Client
	Contracts []core.Contract
	Total     decimal.Decimal
	Statuses  []string
}

func (h *Handler) handleContracts(w http.ResponseWriter, r *http.Request) {
	c, err := h.Registry.GetClient(r.Context(), chi.URLParam(r, "clientID"))
	if err != nil {
		h.fail(w, r, err, clientsPath)
		return
	}
	contracts, err := h.Registry.ListContracts(r.Context(), c.ID)
	if err != nil {
		h.Render.Fault(w, r, err)
		return
	}
	h.Render.Render(w, r, http.StatusOK, "contracts", "Contracts: "+c.Name, contractsPage{
		Client:    c,
		Contracts: contracts,
		Total:     core.ContractTotal(contracts),
		Statuses:  core.ContractStatuses,
	})
}

func (h *Handler) handleCreateContract(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientID")
	back := clientsPath + "/" + clientID + "/contracts"

	form, err := shared.ParseForm(r)
	if err != nil {
		web.Redirect(w, r, back, web.Warning("The form could not be read."))
		return
	}
	contract := core.Contract{
		ClientID:  clientID,
		StartDate: form.RequiredDate("start_date"),
		EndDate:   form.RequiredDate("end_date"),
		Value:     form.Decimal("value"),
		Status:    form.OneOf("status", core.ContractStatuses),
	}
	form.DateOrder("start_date", contract.StartDate, "end_date", contract.EndDate)
	if form.HasIssues() {
		web.Redirect(w, r, back, web.Warning("Please fix: "+form.Message()+"."))
		return
	}

	created, err := h.Registry.CreateContract(r.Context(), contract)
	if err != nil {
		h.fail(w, r, err, back)
		return
	}
	h.Audit.Log(r.Context(), "contract.create", "contract", created.ID, nil, created)
	web.Redirect(w, r, back, web.Success("Contract added."))
}

func (h *Handler) handleEndContract(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientID")
	back := clientsPath + "/" + clientID + "/contracts"

	ended, err := h.Registry.EndContract(r.Context(), clientID, chi.URLParam(r, "contractID"))
	if err != nil {
		h.fail(w, r, err, back)
		return
	}
	h.Audit.Log(r.Context(), "contract.end", "contract", ended.ID, nil, ended)
	web.Redirect(w, r, back, web.Success("Contract ended."))
}
