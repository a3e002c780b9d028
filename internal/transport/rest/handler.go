package rest

import (
	"fmt"
	"net/http"
	"time"

	"rentledger/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Handler struct {
	tenants    *service.TenantService
	status     *service.StatusService
	scheduler  *service.SchedulerService
	charges    *service.ChargeService
	reconciler *service.ReconcilerService
	properties *service.PropertyService
	expenses   *service.ExpenseService
	settings   *service.SettingsService
	summary    *service.SummaryService
	reminders  *service.ReminderService
	reports    *service.ReportService
}

func NewHandler(
	tenants *service.TenantService,
	status *service.StatusService,
	scheduler *service.SchedulerService,
	charges *service.ChargeService,
	reconciler *service.ReconcilerService,
	properties *service.PropertyService,
	expenses *service.ExpenseService,
	settings *service.SettingsService,
	summary *service.SummaryService,
	reminders *service.ReminderService,
	reports *service.ReportService,
) *Handler {
	return &Handler{
		tenants:    tenants,
		status:     status,
		scheduler:  scheduler,
		charges:    charges,
		reconciler: reconciler,
		properties: properties,
		expenses:   expenses,
		settings:   settings,
		summary:    summary,
		reminders:  reminders,
		reports:    reports,
	}
}

func (h *Handler) InitRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Timeout(60*time.Second),
	)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})

	r.Route("/tenants", func(r chi.Router) {
		r.Get("/", h.listTenants)
		r.Post("/", h.createTenant)
		r.Get("/{id}", h.getTenant)
		r.Put("/{id}", h.updateTenant)
		r.Delete("/{id}", h.deleteTenant)
		r.Post("/{id}/archive", h.archiveTenant)
		r.Post("/{id}/evaluate", h.evaluateTenant)
		r.Post("/{id}/increment", h.incrementTenantRent)
		r.Get("/{id}/due", h.tenantDue)
		r.Get("/{id}/charges", h.listTenantCharges)
		r.Get("/{id}/reminder", h.tenantReminder)
	})

	r.Route("/payments", func(r chi.Router) {
		r.Get("/", h.listPayments)
		r.Post("/", h.recordManualPayment)
		r.Delete("/{id}", h.deletePayment)
		r.Get("/summary", h.paymentSummary)
		r.Get("/activity", h.recentActivity)
	})

	r.Route("/pending-payments", func(r chi.Router) {
		r.Get("/", h.listPendingPayments)
		r.Post("/", h.submitPendingPayment)
		r.Post("/{id}/verify", h.verifyPendingPayment)
		r.Post("/{id}/reject", h.rejectPendingPayment)
	})

	r.Route("/charges", func(r chi.Router) {
		r.Get("/", h.listCharges)
		r.Post("/", h.recordCharge)
		r.Delete("/{tenantID}/{month}", h.deleteCharge)
	})

	r.Route("/properties", func(r chi.Router) {
		r.Get("/", h.listProperties)
		r.Post("/", h.createProperty)
		r.Get("/{id}", h.getProperty)
		r.Put("/{id}", h.updateProperty)
		r.Delete("/{id}", h.deleteProperty)
	})

	r.Route("/expenses", func(r chi.Router) {
		r.Get("/", h.listExpenses)
		r.Post("/", h.createExpense)
		r.Get("/summary", h.expenseSummary)
		r.Put("/{id}", h.updateExpense)
		r.Delete("/{id}", h.deleteExpense)
	})

	r.Route("/settings", func(r chi.Router) {
		r.Get("/payment-rules", h.getPaymentRules)
		r.Put("/payment-rules", h.savePaymentRules)
		r.Get("/business-info", h.getBusinessInfo)
		r.Put("/business-info", h.saveBusinessInfo)
		r.Get("/reminder-messages", h.getReminderMessages)
		r.Put("/reminder-messages", h.saveReminderMessages)
	})

	r.Route("/reports", func(r chi.Router) {
		r.Get("/", h.listReports)
		r.Get("/{report_id}", h.getReport)
		r.Post("/", h.startReport)
	})

	r.Get("/reminders", h.listReminders)
	r.Post("/evaluate", h.evaluateAll)

	return r
}
