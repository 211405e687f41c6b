package registry

import "batchlens/internal/domain"

// Match weights. Required fields dominate so a model can never win on
// optional matches alone.
const (
	WeightRequired = 3.0
	WeightOptional = 1.0
)

func req(name string, aliases ...string) FieldSignature {
	return FieldSignature{CanonicalName: name, Aliases: aliases, Required: true, Weight: WeightRequired}
}

func opt(name string, aliases ...string) FieldSignature {
	return FieldSignature{CanonicalName: name, Aliases: aliases, Required: false, Weight: WeightOptional}
}

// Builtin returns the registry of known HR, payroll and time models.
// This is the versioned static definition the analyzer runs against;
// deployments tune thresholds via config, not by mutating this data.
func Builtin() *Registry {
	r, err := New(builtinProfiles())
	if err != nil {
		// The builtin table is compile-time data; an inconsistency here is
		// a programming error, not a runtime condition.
		panic(err)
	}
	return r
}

func builtinProfiles() []ModelProfile {
	return []ModelProfile{
		{
			Name:     "Department",
			Category: domain.CategoryHR,
			Fields: []FieldSignature{
				req("department_code", "dept_code", "dept code", "department id"),
				req("department_name", "dept_name", "dept name", "department"),
				opt("parent_department_code", "parent_dept_code", "parent department"),
				opt("cost_center", "cost centre", "cost_center_code"),
				opt("location", "office_location", "site"),
			},
		},
		{
			Name:      "Position",
			Category:  domain.CategoryHR,
			DependsOn: []string{"Department"},
			Fields: []FieldSignature{
				req("position_code", "position id", "job_code", "job code"),
				req("position_title", "job_title", "job title", "designation"),
				opt("grade", "pay_grade", "job_grade"),
				opt("department_code", "dept_code"),
				opt("reports_to", "manager_position"),
			},
		},
		{
			Name:      "Employee",
			Category:  domain.CategoryHR,
			DependsOn: []string{"Department", "Position"},
			Fields: []FieldSignature{
				req("employee_number", "emp_no", "emp_number", "employee no", "employee id", "staff_number", "staff no"),
				req("first_name", "given_name", "fname", "forename"),
				req("last_name", "surname", "family_name", "lname"),
				opt("email", "email_address", "work_email"),
				opt("hire_date", "date_of_joining", "joining_date", "start_date_of_employment"),
				opt("department_code", "dept_code"),
				opt("position_code", "job_code"),
				opt("date_of_birth", "dob", "birth_date"),
				opt("gender", "sex"),
				opt("phone", "phone_number", "mobile"),
			},
		},
		{
			Name:      "Salary",
			Category:  domain.CategoryPayroll,
			DependsOn: []string{"Employee"},
			Fields: []FieldSignature{
				req("employee_number", "emp_no", "emp_number", "employee no", "employee id", "staff_number"),
				req("basic_salary", "base_salary", "basic_pay", "base_pay"),
				opt("effective_date", "effective_from", "valid_from"),
				opt("currency", "currency_code"),
				opt("pay_grade", "salary_grade"),
				opt("gross_salary", "gross_pay"),
			},
		},
		{
			Name:      "Allowance",
			Category:  domain.CategoryPayroll,
			DependsOn: []string{"Employee", "Salary"},
			Fields: []FieldSignature{
				req("employee_number", "emp_no", "emp_number", "employee no", "employee id", "staff_number"),
				req("allowance_type", "allowance", "allowance_code"),
				req("allowance_amount", "amount"),
				opt("effective_date", "effective_from"),
				opt("taxable", "is_taxable"),
			},
		},
		{
			Name:      "Deduction",
			Category:  domain.CategoryPayroll,
			DependsOn: []string{"Employee", "Salary"},
			Fields: []FieldSignature{
				req("employee_number", "emp_no", "emp_number", "employee no", "employee id", "staff_number"),
				req("deduction_type", "deduction", "deduction_code"),
				req("deduction_amount", "amount"),
				opt("effective_date", "effective_from"),
				opt("pre_tax", "is_pre_tax"),
			},
		},
		{
			Name:      "BankAccount",
			Category:  domain.CategoryPayroll,
			DependsOn: []string{"Employee"},
			Fields: []FieldSignature{
				req("employee_number", "emp_no", "emp_number", "employee no", "employee id", "staff_number"),
				req("account_number", "bank_account", "account no", "bank_account_number"),
				req("bank_name", "bank"),
				opt("branch_code", "sort_code", "routing_number"),
				opt("iban"),
				opt("swift_code", "bic"),
			},
		},
		{
			Name:      "Attendance",
			Category:  domain.CategoryTime,
			DependsOn: []string{"Employee"},
			Fields: []FieldSignature{
				req("employee_number", "emp_no", "emp_number", "employee no", "employee id", "staff_number"),
				req("attendance_date", "work_date", "shift_date"),
				opt("hours_worked", "worked_hours", "hours"),
				opt("overtime_hours", "overtime"),
				opt("check_in", "clock_in", "time_in"),
				opt("check_out", "clock_out", "time_out"),
				opt("attendance_status", "status"),
			},
		},
		{
			Name:      "Leave",
			Category:  domain.CategoryTime,
			DependsOn: []string{"Employee"},
			Fields: []FieldSignature{
				req("employee_number", "emp_no", "emp_number", "employee no", "employee id", "staff_number"),
				req("leave_type", "leave", "absence_type"),
				req("leave_start_date", "start_date", "from_date"),
				opt("leave_end_date", "end_date", "to_date"),
				opt("leave_days", "days", "duration_days"),
				opt("approved_by", "approver"),
			},
		},
	}
}
