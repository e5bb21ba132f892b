package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"credit-scoring/internal/config"
	"credit-scoring/internal/domain"
	"credit-scoring/internal/model"
	"credit-scoring/internal/policy"
	"credit-scoring/internal/service"
)

func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	var classifier model.Classifier
	if cfg.ModelURL != "" {
		classifier, err = model.NewHTTPClassifier(ctx, cfg.ModelURL, time.Duration(cfg.ModelTimeoutSeconds)*time.Second, logger)
	} else {
		classifier, err = model.LoadArtifact(cfg.ModelPath)
	}
	if err != nil {
		log.Fatalf("cargar modelo: %v", err)
	}

	catalog, err := policy.LoadCatalog(cfg.VariantsFile, cfg.DefaultVariant)
	if err != nil {
		log.Fatalf("cargar variantes: %v", err)
	}

	scoringSvc := service.NewScoringService(logger, classifier, catalog)
	importanceSvc := service.NewImportanceService(classifier)

	fmt.Println("===== Model Check =====")
	fmt.Printf("Modelo: %s\n", model.DigestOf(classifier))
	printImportances(ctx, importanceSvc, cfg.ImportanceTopN)

	for {
		variant := chooseVariant(reader, catalog)
		record, ok := readRecord(reader, variant)
		if !ok {
			fmt.Println("Saliendo...")
			return
		}

		result, err := scoringSvc.Score(ctx, variant.Name, record)
		if err != nil {
			fmt.Printf("Error en scoring: %v\n", err)
			continue
		}
		fmt.Printf("Decision: %s (%s)\n", result.Decision(), result.Message)
		fmt.Printf("Probabilidad de reembolso: %.1f%%\n", result.RepaymentPercent())
		fmt.Printf("Riesgo de impago: %.1f%%\n", result.DefaultRiskPercent())
		if result.RiskBand != "" {
			fmt.Printf("Nivel de riesgo: %s\n", result.RiskBand)
		}
		fmt.Println()
	}
}

func chooseVariant(reader *bufio.Reader, catalog *policy.Catalog) policy.Variant {
	variants := catalog.List()
	fmt.Println("Variantes:")
	for i, v := range variants {
		fmt.Printf("  %d) %s\n", i+1, v.Name)
	}
	fmt.Printf("Elegi una variante [%s]: ", catalog.Default().Name)
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if idx, err := strconv.Atoi(line); err == nil && idx >= 1 && idx <= len(variants) {
		return variants[idx-1]
	}
	if v, err := catalog.Get(line); err == nil {
		return v
	}
	return catalog.Default()
}

// readRecord pide los campos; devuelve false con "salir" o EOF.
func readRecord(reader *bufio.Reader, v policy.Variant) (domain.ApplicationRecord, bool) {
	employment, ok := ask(reader, fmt.Sprintf("Situacion laboral %v: ", v.Domains.EmploymentStatuses))
	if !ok {
		return domain.ApplicationRecord{}, false
	}
	education, ok := ask(reader, fmt.Sprintf("Nivel educativo %v: ", v.Domains.EducationLevels))
	if !ok {
		return domain.ApplicationRecord{}, false
	}
	rate := v.Domains.InterestRate
	for {
		raw, ok := ask(reader, fmt.Sprintf("Tasa de interes [%v-%v, default %v]: ", rate.Min, rate.Max, rate.Default))
		if !ok {
			return domain.ApplicationRecord{}, false
		}
		value := rate.Default
		if raw != "" {
			parsed, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				fmt.Println("Numero invalido.")
				continue
			}
			value = parsed
		}
		return domain.ApplicationRecord{
			EmploymentStatus: employment,
			InterestRate:     value,
			EducationLevel:   education,
		}, true
	}
}

func ask(reader *bufio.Reader, prompt string) (string, bool) {
	fmt.Print(prompt)
	text, err := reader.ReadString('\n')
	if err != nil && text == "" {
		return "", false
	}
	text = strings.TrimSpace(text)
	if strings.EqualFold(text, "salir") || strings.EqualFold(text, "exit") {
		return "", false
	}
	return text, true
}

func printImportances(ctx context.Context, svc *service.ImportanceService, n int) {
	top, err := svc.Top(ctx, n)
	if errors.Is(err, service.ErrImportanceUnavailable) {
		fmt.Println("El modelo no expone importancias.")
		return
	}
	if err != nil {
		fmt.Printf("Error leyendo importancias: %v\n", err)
		return
	}
	fmt.Printf("Top %d features:\n", len(top))
	for _, fi := range top {
		fmt.Printf("  %-48s %.4f\n", fi.Feature, fi.Score)
	}
	fmt.Println()
}
