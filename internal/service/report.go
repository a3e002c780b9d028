package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"time"

	"rentledger/internal/clients"
	"rentledger/internal/domain"
	"rentledger/internal/repository"
	"rentledger/internal/rules"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// Report types the admin can request.
const (
	ReportTenants        = "tenants"
	ReportPayments       = "payments"
	ReportRentRoll       = "rent_roll"
	ReportLatePayments   = "late_payments"
	ReportPropertyIncome = "property_income"
	ReportProfitLoss     = "profit_loss"
)

const (
	reportTTL    = 30 * time.Minute
	reportSetKey = "report_ids"

	maxPaymentsForReport = 500_000
)

// ReportStatus is the redis-backed progress record for one report run.
type ReportStatus struct {
	Key      string                 `json:"key"`
	Type     string                 `json:"type"`
	Filters  map[string]interface{} `json:"filters"`
	Progress float64                `json:"progress"`
	FileURL  *string                `json:"file_url"`
	Error    *string                `json:"error,omitempty"`
	Created  time.Time              `json:"created"`
}

type ReportFilter struct {
	TenantID   *string
	PropertyID *string
	StartDate  *time.Time
	EndDate    *time.Time
}

// ReportService generates xlsx reports asynchronously: the request
// returns a report id immediately, progress lands in redis and is
// pushed over websocket, and the finished file is served from storage.
type ReportService struct {
	tenants    *repository.TenantRepository
	payments   *repository.PaymentRepository
	properties *repository.PropertyRepository
	expenses   *repository.ExpenseRepository
	charges    *repository.ChargeRepository
	settings   *SettingsService

	redis   *clients.RedisClient
	storage *clients.StorageClient
	s3      *clients.S3Client
	events  *clients.EventsClient
}

func NewReportService(
	tenants *repository.TenantRepository,
	payments *repository.PaymentRepository,
	properties *repository.PropertyRepository,
	expenses *repository.ExpenseRepository,
	charges *repository.ChargeRepository,
	settings *SettingsService,
	redis *clients.RedisClient,
	storage *clients.StorageClient,
	s3 *clients.S3Client,
	events *clients.EventsClient,
) *ReportService {
	return &ReportService{
		tenants:    tenants,
		payments:   payments,
		properties: properties,
		expenses:   expenses,
		charges:    charges,
		settings:   settings,
		redis:      redis,
		storage:    storage,
		s3:         s3,
		events:     events,
	}
}

func (s *ReportService) saveStatus(ctx context.Context, st *ReportStatus) error {
	if s.redis == nil {
		return nil
	}
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	if err := s.redis.Set(ctx, st.Key, string(data), reportTTL); err != nil {
		return err
	}
	return s.redis.SAdd(ctx, reportSetKey, st.Key)
}

// StartReport validates the request and kicks off generation in the
// background. The returned id is the handle for polling and for the
// websocket events.
func (s *ReportService) StartReport(ctx context.Context, reportType string, filter ReportFilter) (string, error) {
	switch reportType {
	case ReportTenants, ReportPayments, ReportRentRoll, ReportLatePayments, ReportPropertyIncome, ReportProfitLoss:
	default:
		return "", &domain.ValidationError{Field: "type", Message: fmt.Sprintf("unknown report type %q", reportType)}
	}

	reportID := fmt.Sprintf("reports:%s", uuid.NewString())
	status := &ReportStatus{
		Key:      reportID,
		Type:     reportType,
		Filters:  buildReportFiltersMap(filter),
		Progress: 0,
		Created:  time.Now(),
	}
	_ = s.saveStatus(ctx, status)

	go s.runReport(context.Background(), status, filter)

	return reportID, nil
}

func (s *ReportService) runReport(ctx context.Context, status *ReportStatus, filter ReportFilter) {
	headers, sheetRows, err := s.buildRows(ctx, status.Type, filter)
	if err != nil {
		s.fail(ctx, status, fmt.Sprintf("build report failed: %v", err))
		return
	}

	f := excelize.NewFile()
	sheet := sheetName(status.Type)
	f.SetSheetName(f.GetSheetName(0), sheet)

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	total := len(sheetRows)
	chunkSize := 1000
	for i, row := range sheetRows {
		for colIdx, v := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, i+2)
			_ = f.SetCellValue(sheet, cell, v)
		}

		if (i+1)%chunkSize == 0 || i == total-1 {
			raw := float64(i+1) / float64(total) * 100.0
			progress := math.Round(raw)
			if progress >= 100 {
				progress = 95
			}
			status.Progress = progress
			_ = s.saveStatus(ctx, status)
			if s.events != nil {
				_ = s.events.NotifyReportProgress(ctx, status.Key, progress, "generating")
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.fail(ctx, status, fmt.Sprintf("write workbook failed: %v", err))
		return
	}
	data := buf.Bytes()

	fileName := fmt.Sprintf("%s_%s.xlsx", status.Type, time.Now().Format("20060102_150405"))

	status.Progress = 95
	_ = s.saveStatus(ctx, status)
	if s.events != nil {
		_ = s.events.NotifyReportProgress(ctx, status.Key, 95, "uploading")
	}

	savedName, err := s.storage.Save(ctx, fileName, data)
	if err != nil {
		s.fail(ctx, status, fmt.Sprintf("save report failed: %v", err))
		return
	}
	url := s.storage.GetURL(savedName)

	if s.s3 != nil {
		if _, err := s.s3.UploadXLSX(ctx, fileName, data); err != nil {
			log.Printf("[REPORT] %s: s3 archive failed: %v", status.Key, err)
		}
	}

	status.FileURL = &url
	status.Progress = 100
	_ = s.saveStatus(ctx, status)
	if s.events != nil {
		_ = s.events.NotifyReportProgress(ctx, status.Key, 100, "ready")
		_ = s.events.NotifyReportComplete(ctx, status.Key, url, fileName)
	}
}

func (s *ReportService) fail(ctx context.Context, status *ReportStatus, msg string) {
	log.Printf("[REPORT] %s: %s", status.Key, msg)
	status.Error = &msg
	status.Progress = 100
	_ = s.saveStatus(ctx, status)
	if s.events != nil {
		_ = s.events.NotifyReportFailed(ctx, status.Key, msg)
	}
}

func (s *ReportService) buildRows(ctx context.Context, reportType string, filter ReportFilter) ([]string, [][]any, error) {
	switch reportType {
	case ReportTenants:
		return s.tenantRows(ctx, filter)
	case ReportPayments:
		return s.paymentRows(ctx, filter)
	case ReportRentRoll:
		return s.rentRollRows(ctx, filter)
	case ReportLatePayments:
		return s.latePaymentRows(ctx, filter)
	case ReportPropertyIncome:
		return s.propertyIncomeRows(ctx, filter)
	case ReportProfitLoss:
		return s.profitLossRows(ctx, filter)
	}
	return nil, nil, fmt.Errorf("unknown report type %q", reportType)
}

func (s *ReportService) propertyNames(ctx context.Context) map[string]string {
	names := map[string]string{}
	if props, err := s.properties.List(ctx); err == nil {
		for _, p := range props {
			names[p.ID] = p.Name
		}
	}
	return names
}

func (s *ReportService) tenantRows(ctx context.Context, filter ReportFilter) ([]string, [][]any, error) {
	tenants, err := s.tenants.List(ctx, repository.TenantsFilter{PropertyID: filter.PropertyID, IncludeArchived: true})
	if err != nil {
		return nil, nil, err
	}
	names := s.propertyNames(ctx)

	headers := []string{"Name", "Property", "Phone", "Rent", "Deposit", "Status", "Due Date", "Rent Due Day", "Increment %", "Agreement Date"}
	rows := make([][]any, 0, len(tenants))
	for _, t := range tenants {
		rows = append(rows, []any{
			t.Name,
			names[t.PropertyID],
			strPtr(t.Phone),
			t.Rent,
			t.Deposit,
			t.Status,
			datePtr(t.DueDate),
			t.RentDueDay,
			t.Increment,
			datePtr(t.AgreementDate),
		})
	}
	return headers, rows, nil
}

func (s *ReportService) paymentRows(ctx context.Context, filter ReportFilter) ([]string, [][]any, error) {
	payments, err := s.payments.List(ctx, repository.PaymentsFilter{
		TenantID:  filter.TenantID,
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
	})
	if err != nil {
		return nil, nil, err
	}
	if len(payments) > maxPaymentsForReport {
		return nil, nil, fmt.Errorf("too many payments for one report (over %d rows)", maxPaymentsForReport)
	}

	tenantNames := map[string]string{}
	if tenants, err := s.tenants.List(ctx, repository.TenantsFilter{IncludeArchived: true}); err == nil {
		for _, t := range tenants {
			tenantNames[t.ID] = t.Name
		}
	}

	headers := []string{"Tenant", "Amount", "Date", "Verified", "Mode", "Rent Portion", "Electricity", "Other", "Notes"}
	rows := make([][]any, 0, len(payments))
	for _, p := range payments {
		var rent, electricity, other int64
		if p.Breakdown != nil {
			rent, electricity, other = p.Breakdown.Rent, p.Breakdown.Electricity, p.Breakdown.Other
		} else {
			rent = p.Amount
		}
		rows = append(rows, []any{
			tenantNames[p.TenantID],
			p.Amount,
			p.Date.Format("2006-01-02"),
			datePtr(p.VerifiedDate),
			p.PaymentMode,
			rent,
			electricity,
			other,
			p.Notes,
		})
	}
	return headers, rows, nil
}

func (s *ReportService) rentRollRows(ctx context.Context, filter ReportFilter) ([]string, [][]any, error) {
	tenants, err := s.tenants.List(ctx, repository.TenantsFilter{PropertyID: filter.PropertyID})
	if err != nil {
		return nil, nil, err
	}
	names := s.propertyNames(ctx)
	cfg := s.settings.PaymentRules(ctx)
	now := time.Now()

	headers := []string{"Tenant", "Property", "Status", "Due Date", "Rent", "Unbilled Charges", "Days Overdue", "Late Fee", "Total Due"}
	rows := make([][]any, 0, len(tenants))
	for _, t := range tenants {
		unbilled, err := s.charges.ListUnbilled(ctx, t.ID)
		if err != nil {
			return nil, nil, err
		}
		st := rules.ComputeStatement(t, domain.UnbilledTotal(unbilled), cfg, now)
		rows = append(rows, []any{
			t.Name,
			names[t.PropertyID],
			t.Status,
			datePtr(t.DueDate),
			st.Rent,
			st.Unbilled,
			st.DaysOverdue,
			st.LateFee,
			st.TotalDue,
		})
	}
	return headers, rows, nil
}

// latePaymentRows lists the verified payments that carried a late-fee
// portion, i.e. cycles that were settled after the grace period ran out.
func (s *ReportService) latePaymentRows(ctx context.Context, filter ReportFilter) ([]string, [][]any, error) {
	payments, err := s.payments.List(ctx, repository.PaymentsFilter{
		TenantID:  filter.TenantID,
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
	})
	if err != nil {
		return nil, nil, err
	}

	tenantNames := map[string]string{}
	if tenants, err := s.tenants.List(ctx, repository.TenantsFilter{IncludeArchived: true}); err == nil {
		for _, t := range tenants {
			tenantNames[t.ID] = t.Name
		}
	}

	headers := []string{"Tenant", "Date", "Amount", "Late Fee", "Rent Portion", "Mode"}
	var rows [][]any
	for _, p := range payments {
		if p.Breakdown == nil || p.Breakdown.LateFee <= 0 {
			continue
		}
		rows = append(rows, []any{
			tenantNames[p.TenantID],
			p.Date.Format("2006-01-02"),
			p.Amount,
			p.Breakdown.LateFee,
			p.Breakdown.Rent,
			p.PaymentMode,
		})
	}
	return headers, rows, nil
}

// propertyIncomeRows aggregates verified payments and expenses per
// property over the filter range, defaulting to the last 12 months.
// Payments attribute to a property through the tenant's assignment.
func (s *ReportService) propertyIncomeRows(ctx context.Context, filter ReportFilter) ([]string, [][]any, error) {
	end := time.Now()
	if filter.EndDate != nil {
		end = *filter.EndDate
	}
	start := end.AddDate(-1, 0, 0)
	if filter.StartDate != nil {
		start = *filter.StartDate
	}

	props, err := s.properties.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	tenants, err := s.tenants.List(ctx, repository.TenantsFilter{IncludeArchived: true})
	if err != nil {
		return nil, nil, err
	}
	payments, err := s.payments.List(ctx, repository.PaymentsFilter{StartDate: &start, EndDate: &end})
	if err != nil {
		return nil, nil, err
	}
	expenses, err := s.expenses.List(ctx, repository.ExpensesFilter{StartDate: &start, EndDate: &end})
	if err != nil {
		return nil, nil, err
	}

	tenantProperty := map[string]string{}
	for _, t := range tenants {
		tenantProperty[t.ID] = t.PropertyID
	}

	income := map[string]int64{}
	spent := map[string]int64{}
	for _, p := range payments {
		income[tenantProperty[p.TenantID]] += p.Amount
	}
	for _, e := range expenses {
		if e.PropertyID != nil {
			spent[*e.PropertyID] += e.Amount
		} else {
			spent[""] += e.Amount
		}
	}

	headers := []string{"Property", "Income", "Expenses", "Net"}
	rows := make([][]any, 0, len(props)+1)
	for _, p := range props {
		rows = append(rows, []any{p.Name, income[p.ID], spent[p.ID], income[p.ID] - spent[p.ID]})
	}
	if income[""] != 0 || spent[""] != 0 {
		rows = append(rows, []any{"(unassigned)", income[""], spent[""], income[""] - spent[""]})
	}
	return headers, rows, nil
}

// profitLossRows buckets income (payments) and expenses by calendar
// month over the filter range, defaulting to the last 12 months.
func (s *ReportService) profitLossRows(ctx context.Context, filter ReportFilter) ([]string, [][]any, error) {
	end := time.Now()
	if filter.EndDate != nil {
		end = *filter.EndDate
	}
	start := end.AddDate(-1, 0, 0)
	if filter.StartDate != nil {
		start = *filter.StartDate
	}

	payments, err := s.payments.List(ctx, repository.PaymentsFilter{StartDate: &start, EndDate: &end})
	if err != nil {
		return nil, nil, err
	}
	expenses, err := s.expenses.List(ctx, repository.ExpensesFilter{StartDate: &start, EndDate: &end})
	if err != nil {
		return nil, nil, err
	}

	income := map[string]int64{}
	spent := map[string]int64{}
	for _, p := range payments {
		income[rules.MonthKey(p.Date)] += p.Amount
	}
	for _, e := range expenses {
		spent[rules.MonthKey(e.Date)] += e.Amount
	}

	headers := []string{"Month", "Income", "Expenses", "Net"}
	var rows [][]any
	for m := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location()); !m.After(end); m = m.AddDate(0, 1, 0) {
		key := rules.MonthKey(m)
		rows = append(rows, []any{key, income[key], spent[key], income[key] - spent[key]})
	}
	return headers, rows, nil
}

func sheetName(reportType string) string {
	switch reportType {
	case ReportTenants:
		return "Tenants"
	case ReportPayments:
		return "Payments"
	case ReportRentRoll:
		return "Rent Roll"
	case ReportLatePayments:
		return "Late Payments"
	case ReportPropertyIncome:
		return "Property Income"
	case ReportProfitLoss:
		return "Profit and Loss"
	}
	return "Report"
}

func buildReportFiltersMap(f ReportFilter) map[string]interface{} {
	m := map[string]interface{}{}
	if f.TenantID != nil {
		m["tenant_id"] = *f.TenantID
	} else {
		m["tenant_id"] = nil
	}
	if f.PropertyID != nil {
		m["property_id"] = *f.PropertyID
	} else {
		m["property_id"] = nil
	}
	if f.StartDate != nil {
		m["start_date"] = f.StartDate.Format("2006-01-02")
	} else {
		m["start_date"] = nil
	}
	if f.EndDate != nil {
		m["end_date"] = f.EndDate.Format("2006-01-02")
	} else {
		m["end_date"] = nil
	}
	return m
}

func strPtr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func datePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
