package controllers

import (
	"context"
	"fmt"
	"io"
	"strings"

	"ulavan-storefront/api"
	"ulavan-storefront/models"
	"ulavan-storefront/routes"
	"ulavan-storefront/ui"
	"ulavan-storefront/utils"
)

// ReportController handles the issue-report page.
type ReportController struct {
	API *api.Client
	UI  ui.UI
	Out io.Writer
}

// NewReportController creates a ReportController rendering to out.
func NewReportController(client *api.Client, u ui.UI, out io.Writer) *ReportController {
	return &ReportController{API: client, UI: u, Out: out}
}

// Submit files an issue report and returns the user to the home page.
func (rc *ReportController) Submit(ctx context.Context, input models.ReportInput) error {
	if strings.TrimSpace(input.IssueType) == "" {
		rc.UI.Notify(ui.Warning, "please choose an issue type")
		return fmt.Errorf("issue type is required")
	}
	if strings.TrimSpace(input.Subject) == "" || strings.TrimSpace(input.Description) == "" {
		rc.UI.Notify(ui.Warning, "please fill in the subject and description")
		return fmt.Errorf("subject and description are required")
	}

	if err := rc.API.Post(ctx, routes.Reports, input, true, nil); err != nil {
		rc.UI.Notify(ui.Error, "failed to submit report, please try again")
		return err
	}
	rc.UI.Notify(ui.Success, "we received your report, our team will contact you soon")
	rc.UI.Navigate(ui.PageHome)
	return nil
}

// MyReports lists the user's submitted reports.
func (rc *ReportController) MyReports(ctx context.Context) ([]models.Report, error) {
	var reports []models.Report
	if err := rc.API.Get(ctx, routes.MyReports, true, &reports); err != nil {
		rc.UI.Notify(ui.Error, api.Message(err))
		return nil, err
	}

	if len(reports) == 0 {
		fmt.Fprintln(rc.Out, "No reports submitted yet.")
		return reports, nil
	}
	for _, r := range reports {
		fmt.Fprintf(rc.Out, "[%s] %s  %s  %s\n", r.Status, r.IssueType, r.Subject, utils.FormatDate(r.CreatedAt))
	}
	return reports, nil
}

// SellerReports lists reports filed against orders for the seller's products.
func (rc *ReportController) SellerReports(ctx context.Context) ([]models.Report, error) {
	var reports []models.Report
	if err := rc.API.Get(ctx, routes.SellerReports, true, &reports); err != nil {
		rc.UI.Notify(ui.Error, api.Message(err))
		return nil, err
	}

	if len(reports) == 0 {
		fmt.Fprintln(rc.Out, "No reports on your orders.")
		return reports, nil
	}
	for _, r := range reports {
		fmt.Fprintf(rc.Out, "[%s] order #%d  %s  %s  %s\n",
			r.Status, r.OrderID, r.IssueType, r.Subject, utils.FormatDate(r.CreatedAt))
	}
	return reports, nil
}
