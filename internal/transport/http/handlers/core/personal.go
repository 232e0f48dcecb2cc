package corehandler

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/core"
	"hrportal/internal/platform/storage"
	"hrportal/internal/transport/http/shared"
	"hrportal/internal/transport/http/web"
)

type personalPage struct {
	Employee      core.Employee
	Detail        core.PersonalDetail
	Found         bool
	Documents     []core.Document
	DocumentTypes []string
}

func (h *Handler) handlePersonalPage(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Registry.GetEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		h.fail(w, r, err, employeesPath)
		return
	}
	detail, found, err := h.Registry.PersonalDetail(r.Context(), emp.ID)
	if err != nil {
		h.Render.Fault(w, r, err)
		return
	}
	docs, err := h.Registry.ListDocuments(r.Context(), emp.ID)
	if err != nil {
		h.Render.Fault(w, r, err)
		return
	}
	h.Render.Render(w, r, http.StatusOK, "employee_personal", "Personal data: "+emp.Name, personalPage{
		Employee:      emp,
		Detail:        detail,
		Found:         found,
		Documents:     docs,
		DocumentTypes: core.DocumentTypes,
	})
}

// readPersonal maps the personal data form. Conversion problems are
// collected on form and the affected fields are left empty.
func readPersonal(form *shared.Form, employeeID string) core.PersonalDetail {
	return core.PersonalDetail{
		EmployeeID:        employeeID,
		NIK:               form.String("nik"),
		FullName:          form.String("full_name"),
		Nickname:          form.String("nickname"),
		Gender:            form.String("gender"),
		BirthPlace:        form.String("birth_place"),
		BirthDate:         form.OptionalDatePtr("birth_date"),
		AddressKTP:        form.String("address_ktp"),
		AddressCurrent:    form.String("address_current"),
		Education:         form.String("education"),
		LastJob:           form.String("last_job"),
		Phone:             form.String("phone"),
		Email:             form.String("email"),
		BloodType:         strings.ToUpper(form.String("blood_type")),
		HeightCm:          form.OptionalInt("height_cm"),
		WeightKg:          form.OptionalInt("weight_kg"),
		ShirtSize:         form.String("shirt_size"),
		ShoeSize:          form.String("shoe_size"),
		MaritalStatus:     form.String("marital_status"),
		SpouseName:        form.String("spouse_name"),
		SpouseJob:         form.String("spouse_job"),
		NumChildren:       form.OptionalInt("num_children"),
		BPJSEmployment:    form.String("bpjs_ketenagakerjaan"),
		BPJSHealth:        form.String("bpjs_kesehatan"),
		ParentsName:       form.String("parents_name"),
		ParentsAddress:    form.String("parents_address"),
		NumSiblings:       form.OptionalInt("num_siblings"),
		NoteHealth:        form.String("note_health"),
		EmergencyName:     form.String("emergency_contact_name"),
		EmergencyPhone:    form.String("emergency_contact_phone"),
		EmergencyRelation: form.String("emergency_contact_relation"),
		EmergencyAddress:  form.String("emergency_contact_address"),
	}
}

// documentExtensions lists what each document slot accepts.
func documentExtensions(documentType string) []string {
	if documentType == core.DocumentPhoto {
		return storage.PhotoExtensions
	}
	return storage.DocumentExtensions
}

// saveDocuments stores one upload per document type field present on form.
func (h *Handler) saveDocuments(r *http.Request, form *shared.Form, employeeID string) ([]web.Flash, error) {
	var warnings []web.Flash
	for _, docType := range core.DocumentTypes {
		rel, warning, err := h.storeUpload(form.File(docType), storage.KindDocuments, documentExtensions(docType), strings.ToUpper(docType))
		if err != nil {
			return warnings, err
		}
		if warning != nil {
			warnings = append(warnings, *warning)
		}
		if rel == "" {
			continue
		}
		doc, err := h.Registry.AddDocument(r.Context(), employeeID, docType, rel)
		if err != nil {
			h.removeFiles([]string{rel})
			return warnings, err
		}
		h.Audit.Log(r.Context(), "document.upload", "employee_document", doc.ID, nil, doc)
	}
	return warnings, nil
}

func (h *Handler) handleSavePersonal(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	back := employeesPath + "/" + employeeID + "/personal"

	form, err := shared.ParseForm(r)
	if err != nil {
		web.Redirect(w, r, back, web.Warning("The form could not be read. Uploads must stay under the size limit."))
		return
	}
	detail := readPersonal(form, employeeID)
	if form.HasIssues() {
		web.Redirect(w, r, back, web.Warning("Please fix: "+form.Message()+"."))
		return
	}
	if err := h.Registry.SavePersonalDetail(r.Context(), detail); err != nil {
		h.fail(w, r, err, back)
		return
	}
	h.Audit.Log(r.Context(), "employee.personal_update", "employee", employeeID, nil, map[string]any{"fullName": detail.FullName})

	warnings, err := h.saveDocuments(r, form, employeeID)
	if err != nil {
		h.fail(w, r, err, back)
		return
	}
	web.Redirect(w, r, back, append([]web.Flash{web.Success("Personal data saved.")}, warnings...)...)
}

func (h *Handler) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	doc, err := h.Registry.DeleteDocument(r.Context(), employeeID, chi.URLParam(r, "documentID"))
	if err != nil {
		h.fail(w, r, err, employeesPath+"/"+employeeID+"/personal")
		return
	}
	h.removeFiles([]string{doc.FilePath})
	h.Audit.Log(r.Context(), "document.delete", "employee_document", doc.ID, doc, nil)
	web.Redirect(w, r, employeesPath+"/"+employeeID+"/personal", web.Success(strings.ToUpper(doc.DocumentType)+" document removed."))
}

func (h *Handler) handleProfilePDF(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Registry.GetEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		h.fail(w, r, err, employeesPath)
		return
	}
	detail, _, err := h.Registry.PersonalDetail(r.Context(), emp.ID)
	if err != nil {
		h.Render.Fault(w, r, err)
		return
	}
	docs, err := h.Registry.ListDocuments(r.Context(), emp.ID)
	if err != nil {
		h.Render.Fault(w, r, err)
		return
	}

	profile := core.Profile{Employee: emp, Detail: detail, Documents: docs}
	if path, err := h.Storage.Path(profilePhoto(emp, docs)); err == nil {
		profile.PhotoPath = path
	}

	var buf bytes.Buffer
	if err := core.WriteProfilePDF(&buf, profile); err != nil {
		h.Render.Fault(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="profile_%s.pdf"`, core.DeriveUsername(emp.Name)))
	_, _ = buf.WriteTo(w)
}

// profilePhoto prefers the latest uploaded photo document over the
// photo set on the employee form.
func profilePhoto(emp core.Employee, docs []core.Document) string {
	for _, doc := range docs {
		if doc.DocumentType == core.DocumentPhoto {
			return doc.FilePath
		}
	}
	return emp.Photo
}
