package main

import (
	"context"
	"fmt"
	"io"
	"os"

	computeAvailabilityUC "github.com/m04kA/SMC-SalonBookingService/internal/usecase/compute_availability"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// AvailabilityCmd печатает доступные окна
type AvailabilityCmd struct {
	Salon    int64  `help:"Salon ID." required:""`
	Service  int64  `help:"Service ID." required:""`
	Employee int64  `help:"Employee ID (0 = all qualified employees)." default:"0"`
	Date     string `help:"Date in YYYY-MM-DD." required:""`
}

func (c *AvailabilityCmd) Run(appCtx *Context) error {
	ctx := context.Background()

	app, err := newApp(ctx, appCtx.Config, appCtx.Log)
	if err != nil {
		return err
	}
	defer app.Close()

	return c.print(ctx, app, os.Stdout)
}

func (c *AvailabilityCmd) print(ctx context.Context, app *App, out io.Writer) error {
	date, err := types.ParseDate(c.Date)
	if err != nil {
		return fmt.Errorf("invalid --date: %w", err)
	}

	req := &computeAvailabilityUC.Request{
		SalonID:   c.Salon,
		ServiceID: c.Service,
		Date:      date,
	}
	if c.Employee > 0 {
		employee := c.Employee
		req.EmployeeID = &employee
	}

	resp, err := app.availability.Execute(ctx, req)
	if err != nil {
		return err
	}

	if len(resp.Windows) == 0 {
		_, err = fmt.Fprintf(out, "no availability on %s\n", date)
		return err
	}
	for _, w := range resp.Windows {
		if _, err := fmt.Fprintf(out, "%s %s-%s employee=%d\n", date, w.StartTime, w.EndTime, w.EmployeeID); err != nil {
			return err
		}
	}
	return nil
}
