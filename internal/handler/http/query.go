package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// queryInt returns nil when key is absent.
func queryInt(r *http.Request, key string) (*int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	return &n, nil
}

// queryDecimal returns nil when key is absent.
func queryDecimal(r *http.Request, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a decimal number", key)
	}
	return &d, nil
}

func queryString(r *http.Request, key string) *string {
	if v := strings.TrimSpace(r.URL.Query().Get(key)); v != "" {
		return &v
	}
	return nil
}

func employeeFilterFromQuery(r *http.Request) employee.EmployeeFilter {
	filter := employee.EmployeeFilter{
		Search:       queryString(r, "search"),
		DepartmentID: queryString(r, "department_id"),
		GradeID:      queryString(r, "grade_id"),
	}
	if ids := queryString(r, "employee_ids"); ids != nil {
		for _, id := range strings.Split(*ids, ",") {
			if id = strings.TrimSpace(id); id != "" {
				filter.EmployeeIDs = append(filter.EmployeeIDs, id)
			}
		}
	}
	return filter
}

func recordFilterFromQuery(r *http.Request) (payroll.RecordFilter, error) {
	month, err := queryInt(r, "month")
	if err != nil {
		return payroll.RecordFilter{}, err
	}
	year, err := queryInt(r, "year")
	if err != nil {
		return payroll.RecordFilter{}, err
	}
	return payroll.RecordFilter{
		EmployeeID: queryString(r, "employee_id"),
		Month:      month,
		Year:       year,
	}, nil
}

// requiredPeriod reads month and year; a missing value is left as zero so
// request validation reports it.
func requiredPeriod(r *http.Request) (month, year int, err error) {
	m, err := queryInt(r, "month")
	if err != nil {
		return 0, 0, err
	}
	y, err := queryInt(r, "year")
	if err != nil {
		return 0, 0, err
	}
	if m != nil {
		month = *m
	}
	if y != nil {
		year = *y
	}
	return month, year, nil
}
