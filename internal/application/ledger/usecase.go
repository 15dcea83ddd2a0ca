package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domledger "github.com/jhoicas/stock-ledger/internal/domain/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// Config ajustes del pipeline.
type Config struct {
	Parallelism  int  // recorridos de ubicación simultáneos; <= 1 usa la construcción secuencial
	BuildOnFatal bool // construir el ledger aunque haya errores de cronología
}

// PipelineUseCase ejecuta deduplicación, conciliación, validación y construcción del ledger,
// y guarda cada ejecución como instantánea consultable.
type PipelineUseCase struct {
	records    repository.MovementRecordRepository
	runs       repository.LedgerRunRepository
	entries    repository.LedgerEntryRepository
	txRunner   TxRunner
	cache      ResultCache
	classifier LocationClassifier
	cfg        Config
	log        *logger.Logger
	now        func() time.Time
}

// NewPipelineUseCase construye el caso de uso. cache y classifier son opcionales (nil).
func NewPipelineUseCase(
	records repository.MovementRecordRepository,
	runs repository.LedgerRunRepository,
	entries repository.LedgerEntryRepository,
	txRunner TxRunner,
	cache ResultCache,
	classifier LocationClassifier,
	cfg Config,
	log *logger.Logger,
) *PipelineUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &PipelineUseCase{
		records:    records,
		runs:       runs,
		entries:    entries,
		txRunner:   txRunner,
		cache:      cache,
		classifier: classifier,
		cfg:        cfg,
		log:        log.Component("ledger"),
		now:        time.Now,
	}
}

// WithClock reemplaza el reloj (fechas sintéticas sin referencia y CreatedAt).
func (uc *PipelineUseCase) WithClock(now func() time.Time) *PipelineUseCase {
	uc.now = now
	return uc
}

// Run ejecuta el pipeline sobre los registros del cuerpo de la petición.
func (uc *PipelineUseCase) Run(ctx context.Context, userID string, in dto.RunLedgerRequest) (*dto.LedgerRunResponse, error) {
	records, err := RecordsFromDTO(in.Records)
	if err != nil {
		return nil, err
	}
	return uc.execute(ctx, userID, entity.RunSourceRequest, records, in.BuildOnFatal)
}

// RunFromStore ejecuta el pipeline sobre los registros guardados en el rango de fechas.
func (uc *PipelineUseCase) RunFromStore(ctx context.Context, userID string, in dto.RunFromStoreRequest) (*dto.LedgerRunResponse, error) {
	from, to, err := parseRange(in.From, in.To)
	if err != nil {
		return nil, err
	}
	records, err := uc.records.List(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return uc.execute(ctx, userID, entity.RunSourceStore, records, in.BuildOnFatal)
}

// ImportRecords valida y guarda registros normalizados en el almacén de origen.
func (uc *PipelineUseCase) ImportRecords(ctx context.Context, in dto.ImportRecordsRequest) (*dto.ImportRecordsResponse, error) {
	records, err := RecordsFromDTO(in.Records)
	if err != nil {
		return nil, err
	}
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("registro %d: %w", i, err)
		}
	}
	n, err := uc.records.CreateBatch(ctx, records)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("imported", n).Msg("registros importados")
	return &dto.ImportRecordsResponse{Imported: n}, nil
}

// GetRun obtiene una ejecución por ID. Devuelve nil, nil si no existe.
func (uc *PipelineUseCase) GetRun(ctx context.Context, id string) (*dto.LedgerRunResponse, error) {
	if out, ok := uc.cachedRun(ctx, runKeyByID(id)); ok {
		return out, nil
	}
	run, err := uc.runs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, nil
	}
	var out dto.LedgerRunResponse
	if err := json.Unmarshal(run.Payload, &out); err != nil {
		return nil, fmt.Errorf("decodificar ejecución %s: %w", id, err)
	}
	uc.storeCache(ctx, runKeyByID(id), run.Payload)
	return &out, nil
}

// ListRuns lista las ejecuciones más recientes.
func (uc *PipelineUseCase) ListRuns(ctx context.Context, limit, offset int) (*dto.LedgerRunListResponse, error) {
	list, err := uc.runs.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.runs.Count(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LedgerRunSummary, 0, len(list))
	for _, r := range list {
		items = append(items, dto.LedgerRunSummary{
			ID:          r.ID,
			InputHash:   r.InputHash,
			Source:      r.Source,
			RecordCount: r.RecordCount,
			Passed:      r.Passed,
			LedgerBuilt: r.LedgerBuilt,
			CreatedBy:   r.CreatedBy,
			CreatedAt:   r.CreatedAt,
		})
	}
	return &dto.LedgerRunListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset, Total: total}}, nil
}

// ListEntries devuelve las filas guardadas de una ejecución, opcionalmente de una sola ubicación.
func (uc *PipelineUseCase) ListEntries(ctx context.Context, runID, location string) (*dto.LedgerEntryListResponse, error) {
	run, err := uc.runs.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, domain.ErrNotFound
	}
	rows, err := uc.entries.ListByRun(ctx, runID, location)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LedgerEntryDTO, 0, len(rows))
	for _, e := range rows {
		items = append(items, toEntryDTO(e))
	}
	return &dto.LedgerEntryListResponse{RunID: runID, Items: items}, nil
}

func (uc *PipelineUseCase) execute(ctx context.Context, userID, source string, records []entity.TransactionRecord, buildOnFatal bool) (*dto.LedgerRunResponse, error) {
	records = uc.classify(records)
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("registro %d: %w", i, err)
		}
	}
	buildOnFatal = buildOnFatal || uc.cfg.BuildOnFatal
	hash := InputHash(records, buildOnFatal)

	if out, ok := uc.cachedRun(ctx, runKeyByHash(hash)); ok {
		out.Cached = true
		uc.log.Info().Str("run_id", out.ID).Str("input_hash", hash).Msg("ejecución servida desde caché")
		return out, nil
	}

	opts := domledger.Options{Now: uc.now, BuildOnFatal: buildOnFatal}
	if uc.cfg.Parallelism > 1 {
		opts.Build = ParallelBuild(ctx, uc.cfg.Parallelism)
	}
	res, err := domledger.Process(records, opts)
	if err != nil {
		return nil, fmt.Errorf("construir ledger: %w", err)
	}

	out := toRunResponse(res)
	if uc.classifier != nil {
		for i := range out.Locations {
			out.Locations[i].StorageType = uc.classifier.StorageType(out.Locations[i].Location)
			out.Locations[i].IsWarehouse = uc.classifier.IsWarehouse(out.Locations[i].Location)
		}
	}
	out.ID = uuid.New().String()
	out.InputHash = hash
	out.Source = source
	out.CreatedBy = userID
	out.CreatedAt = uc.now().UTC()

	payload, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("serializar ejecución: %w", err)
	}
	run := &entity.LedgerRun{
		ID:          out.ID,
		InputHash:   hash,
		Source:      source,
		RecordCount: len(records),
		Passed:      res.Report.Passed(),
		LedgerBuilt: res.Stats.LedgerBuilt,
		Payload:     payload,
		CreatedBy:   userID,
		CreatedAt:   out.CreatedAt,
	}
	rows := flattenLedger(res.Ledger)
	err = uc.txRunner.Run(ctx, func(runRepo repository.LedgerRunRepository, entryRepo repository.LedgerEntryRepository) error {
		if err := runRepo.Create(ctx, run); err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		_, err := entryRepo.CreateBatch(ctx, run.ID, rows)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("guardar ejecución: %w", err)
	}

	uc.storeCache(ctx, runKeyByHash(hash), payload)
	uc.storeCache(ctx, runKeyByID(run.ID), payload)

	uc.log.Info().
		Str("run_id", run.ID).
		Str("source", source).
		Int("input", res.Stats.InputRecords).
		Int("duplicates", res.Stats.DuplicatesRemoved).
		Int("synthetic_in_to_out", res.Stats.SyntheticInToOut).
		Int("synthetic_out_to_in", res.Stats.SyntheticOutToIn).
		Int("unbalanced", len(res.Report.Unbalanced)).
		Int("chronology", len(res.Report.Chronology)).
		Int("warnings", len(res.Report.Warnings)).
		Bool("ledger_built", res.Stats.LedgerBuilt).
		Msg("pipeline ejecutado")
	return out, nil
}

func (uc *PipelineUseCase) classify(records []entity.TransactionRecord) []entity.TransactionRecord {
	if uc.classifier == nil {
		return records
	}
	out := make([]entity.TransactionRecord, len(records))
	for i, r := range records {
		r.Location = uc.classifier.Canonical(r.Location)
		if r.CounterpartLocation != "" {
			r.CounterpartLocation = uc.classifier.Canonical(r.CounterpartLocation)
		}
		out[i] = r
	}
	return out
}

func (uc *PipelineUseCase) cachedRun(ctx context.Context, key string) (*dto.LedgerRunResponse, bool) {
	if uc.cache == nil {
		return nil, false
	}
	payload, ok, err := uc.cache.Get(ctx, key)
	if err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("lectura de caché")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var out dto.LedgerRunResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("entrada de caché corrupta")
		return nil, false
	}
	return &out, true
}

func (uc *PipelineUseCase) storeCache(ctx context.Context, key string, payload []byte) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Set(ctx, key, payload); err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("escritura de caché")
	}
}

func runKeyByHash(hash string) string { return "ledger:run:hash:" + hash }
func runKeyByID(id string) string     { return "ledger:run:id:" + id }

// InputHash huella SHA-256 de los registros (en orden) y de las opciones que afectan el resultado.
func InputHash(records []entity.TransactionRecord, buildOnFatal bool) string {
	h := sha256.New()
	h.Write([]byte(strconv.FormatBool(buildOnFatal)))
	for _, r := range records {
		fmt.Fprintf(h, "\x1e%s\x1f%s\x1f%d\x1f%s\x1f%s\x1f%s\x1f%s",
			r.CaseID, r.Date.UTC().Format(time.RFC3339Nano), r.Quantity, r.Kind, r.Location, r.CounterpartLocation, r.Provenance)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func parseRange(from, to string) (*time.Time, *time.Time, error) {
	var f, t *time.Time
	if from != "" {
		d, err := ParseDate(from)
		if err != nil {
			return nil, nil, err
		}
		f = &d
	}
	if to != "" {
		d, err := ParseDate(to)
		if err != nil {
			return nil, nil, err
		}
		// incluye el día completo
		end := d.Add(24*time.Hour - time.Nanosecond)
		t = &end
	}
	if f != nil && t != nil && t.Before(*f) {
		return nil, nil, fmt.Errorf("%w: rango de fechas invertido", domain.ErrInvalidInput)
	}
	return f, t, nil
}
