package services

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"inmo-pipeline/models"
	"inmo-pipeline/parser"
)

func TestPipelineAbsentDomains(t *testing.T) {
	p := NewPipeline(newTestLogger())
	result := p.Run(nil, nil, nil)

	// Every table must exist with its schema even with no data at all.
	if result.ListingSummary == nil || result.DemandSummary == nil || result.CommissionSummary == nil {
		t.Error("summary tables must be non-nil for absent domains")
	}
	if result.CleanListings == nil || result.CleanDemands == nil || result.CleanTransactions == nil {
		t.Error("cleaned tables must be non-nil for absent domains")
	}
	if len(result.CommissionSummary) != 0 {
		t.Errorf("expected empty commission summary, got %d rows", len(result.CommissionSummary))
	}
}

func TestPipelineSingleDomain(t *testing.T) {
	p := NewPipeline(newTestLogger())
	demands := []models.RawRecord{
		{"fec_alta": "10/05/2025", "captador": "Pati", "tipo_operacion": "Venta"},
	}

	result := p.Run(nil, demands, nil)
	if len(result.DemandSummary) != 1 {
		t.Fatalf("expected 1 demand summary row, got %d", len(result.DemandSummary))
	}
	if len(result.ListingSummary) != 0 || len(result.CommissionSummary) != 0 {
		t.Error("absent domains must stay empty")
	}
}

// Full scenario: a folder with only OPERACIONES.xml, one closed operation
// and one pending, must yield exactly one commission summary row and
// empty (but schema-correct) listing/demand tables.
func TestPipelineEndToEnd(t *testing.T) {
	dir := t.TempDir()
	doc := `<Operaciones>
  <Operacion>
    <cod_operacion>OP-1</cod_operacion>
    <fecha>01/03/2025</fecha>
    <vendedor>Ana</vendedor>
    <estado>Firmada</estado>
    <precio_operacion>200000</precio_operacion>
    <tipoCom_propietario>2%</tipoCom_propietario>
    <valorCom_propietario>2</valorCom_propietario>
  </Operacion>
  <Operacion>
    <cod_operacion>OP-2</cod_operacion>
    <fecha>05/03/2025</fecha>
    <vendedor>Ana</vendedor>
    <estado>Pendiente</estado>
    <precio_operacion>150000</precio_operacion>
  </Operacion>
</Operaciones>`
	if err := os.WriteFile(filepath.Join(dir, "OPERACIONES.xml"), []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	tables, err := parser.NewLoader(newTestLogger()).LoadFolder(dir)
	if err != nil {
		t.Fatalf("LoadFolder returned error: %v", err)
	}

	result := NewPipeline(newTestLogger()).Run(tables.Listings, tables.Demands, tables.Transactions)

	want := []models.CommissionSummaryRow{
		{Year: 2025, Month: 3, Agent: "Ana", TotalCommission: 4000.0, NumOperations: 1},
	}
	if !reflect.DeepEqual(result.CommissionSummary, want) {
		t.Errorf("CommissionSummary:\n got  %+v\n want %+v", result.CommissionSummary, want)
	}

	if result.CleanListings == nil || len(result.CleanListings) != 0 {
		t.Errorf("CleanListings must be empty non-nil, got %v", result.CleanListings)
	}
	if result.CleanDemands == nil || len(result.CleanDemands) != 0 {
		t.Errorf("CleanDemands must be empty non-nil, got %v", result.CleanDemands)
	}
	if len(result.CleanTransactions) != 1 {
		t.Fatalf("expected 1 cleaned transaction, got %d", len(result.CleanTransactions))
	}
	if result.CleanTransactions[0].OperationCode != "OP-1" {
		t.Errorf("wrong transaction survived the status filter: %+v", result.CleanTransactions[0])
	}
}

func TestPipelineIdempotent(t *testing.T) {
	raw := []models.RawRecord{
		{"fecha": "01/03/2025", "vendedor": "Ana", "estado": "Firmada",
			"precio_operacion": "200000", "tipoCom_propietario": "2%", "valorCom_propietario": "2"},
		{"fecha": "12/04/2025", "vendedor": "Teresa", "estado": "Pagado",
			"precio_operacion": "90000", "valorCom_demandante": "1.500,50"},
	}
	listings := []models.RawRecord{
		{"fechaing": "03/03/2025", "agente_captador": "Bibiana", "tipo_operacion": "Venta", "precio": "250000"},
	}

	p := NewPipeline(newTestLogger())
	first := p.Run(listings, nil, raw)
	for i := 0; i < 10; i++ {
		if got := p.Run(listings, nil, raw); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs from first run", i)
		}
	}
}
