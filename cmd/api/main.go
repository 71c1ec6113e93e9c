package main

import (
	"fmt"
	"net/http"

	"github.com/istmosoft/planilla-backend-go/internal/config"
	appHTTP "github.com/istmosoft/planilla-backend-go/internal/handler/http"
	"github.com/istmosoft/planilla-backend-go/internal/pkg/database"
	"github.com/istmosoft/planilla-backend-go/internal/pkg/jwt"
	"github.com/istmosoft/planilla-backend-go/internal/repository/postgresql"
	payrollService "github.com/istmosoft/planilla-backend-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	payrollRepo := postgresql.NewPayrollRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	deductionRepo := postgresql.NewDeductionRepository(db)
	taxTableRepo := postgresql.NewTaxTableRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	payrollSvc := payrollService.NewPayrollService(payrollRepo, employeeRepo, deductionRepo, taxTableRepo)

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	taxTableHandler := appHTTP.NewTaxTableHandler(taxTableRepo)

	router := appHTTP.NewRouter(
		JWTService,
		payrollHandler,
		taxTableHandler,
		cfg.App.AllowedOrigins,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
