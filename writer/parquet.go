package writer

import (
	"bytes"
	"fmt"
	"os"

	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	appconfig "transferflow/config"
	"transferflow/logger"
	"transferflow/models"
)

// ParquetTransfer is the flat-table row layout of the parquet export.
// Nullable columns mirror the JSON null semantics of FlatTransfer.
type ParquetTransfer struct {
	PlayerID            string   `parquet:"name=player_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	PlayerName          string   `parquet:"name=player_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	PlayerAge           *int32   `parquet:"name=player_age, type=INT32, repetitiontype=OPTIONAL"`
	PlayerPosition      string   `parquet:"name=player_position, type=BYTE_ARRAY, convertedtype=UTF8"`
	PlayerNationality   string   `parquet:"name=player_nationality, type=BYTE_ARRAY, convertedtype=UTF8"`
	FromClubID          string   `parquet:"name=from_club_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	FromClubName        string   `parquet:"name=from_club_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	FromClubLeague      string   `parquet:"name=from_club_league, type=BYTE_ARRAY, convertedtype=UTF8"`
	ToClubID            string   `parquet:"name=to_club_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	ToClubName          string   `parquet:"name=to_club_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	ToClubLeague        string   `parquet:"name=to_club_league, type=BYTE_ARRAY, convertedtype=UTF8"`
	TransferFee         *float64 `parquet:"name=transfer_fee, type=DOUBLE, repetitiontype=OPTIONAL"`
	TransferFeeCurrency string   `parquet:"name=transfer_fee_currency, type=BYTE_ARRAY, convertedtype=UTF8"`
	TransferDate        *string  `parquet:"name=transfer_date, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	TransferType        string   `parquet:"name=transfer_type, type=BYTE_ARRAY, convertedtype=UTF8"`
	ContractDuration    string   `parquet:"name=contract_duration, type=BYTE_ARRAY, convertedtype=UTF8"`
	Season              string   `parquet:"name=season, type=BYTE_ARRAY, convertedtype=UTF8"`
	MarketValue         *float64 `parquet:"name=market_value, type=DOUBLE, repetitiontype=OPTIONAL"`
}

// memoryFileWriter implements ParquetFile interface for in-memory writing
type memoryFileWriter struct {
	buffer *bytes.Buffer
}

func newMemoryFileWriter() *memoryFileWriter {
	return &memoryFileWriter{
		buffer: &bytes.Buffer{},
	}
}

func (mfw *memoryFileWriter) Create(name string) (source.ParquetFile, error) {
	return mfw, nil
}

func (mfw *memoryFileWriter) Open(name string) (source.ParquetFile, error) {
	return mfw, nil
}

func (mfw *memoryFileWriter) Seek(offset int64, whence int) (int64, error) {
	return int64(mfw.buffer.Len()), nil
}

func (mfw *memoryFileWriter) Read(b []byte) (int, error) {
	return mfw.buffer.Read(b)
}

func (mfw *memoryFileWriter) Write(b []byte) (int, error) {
	return mfw.buffer.Write(b)
}

func (mfw *memoryFileWriter) Close() error {
	return nil
}

func (mfw *memoryFileWriter) Bytes() []byte {
	return mfw.buffer.Bytes()
}

// ParquetExporter writes the flat transfer table as a parquet file next to
// the JSON snapshot.
type ParquetExporter struct {
	config *appconfig.Config
	log    *logger.Log
}

// NewParquetExporter creates a ParquetExporter.
func NewParquetExporter(cfg *appconfig.Config) *ParquetExporter {
	return &ParquetExporter{
		config: cfg,
		log:    logger.GetLogger(),
	}
}

// Export encodes the table and writes it to path.
func (e *ParquetExporter) Export(table []models.FlatTransfer, path string) error {
	log := e.log.WithComponent("parquet_exporter").WithFields(logger.Fields{
		"path":         path,
		"record_count": len(table),
		"operation":    "export_parquet",
	})

	data, err := e.encode(table)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write parquet file: %w", err)
	}

	log.WithFields(logger.Fields{"file_size": len(data)}).Info("parquet export written")
	return nil
}

func (e *ParquetExporter) encode(table []models.FlatTransfer) ([]byte, error) {
	fw := newMemoryFileWriter()

	pw, err := writer.NewParquetWriter(fw, new(ParquetTransfer), 1)
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet writer: %w", err)
	}

	switch e.config.Output.Formats.Parquet.Compression {
	case "snappy":
		pw.CompressionType = parquet.CompressionCodec_SNAPPY
	case "gzip":
		pw.CompressionType = parquet.CompressionCodec_GZIP
	default:
		pw.CompressionType = parquet.CompressionCodec_UNCOMPRESSED
	}

	for _, t := range table {
		if err := pw.Write(toParquetRow(t)); err != nil {
			pw.WriteStop()
			return nil, fmt.Errorf("failed to write parquet record: %w", err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		return nil, fmt.Errorf("failed to finalize parquet file: %w", err)
	}

	return fw.Bytes(), nil
}

func toParquetRow(t models.FlatTransfer) ParquetTransfer {
	row := ParquetTransfer{
		PlayerID:            t.PlayerID,
		PlayerName:          t.PlayerName,
		PlayerPosition:      t.PlayerPosition,
		PlayerNationality:   t.PlayerNationality,
		FromClubID:          t.FromClubID,
		FromClubName:        t.FromClubName,
		FromClubLeague:      t.FromClubLeague,
		ToClubID:            t.ToClubID,
		ToClubName:          t.ToClubName,
		ToClubLeague:        t.ToClubLeague,
		TransferFee:         t.TransferFee,
		TransferFeeCurrency: t.TransferFeeCurrency,
		TransferType:        t.TransferType,
		ContractDuration:    t.ContractDuration,
		Season:              t.Season,
		MarketValue:         t.MarketValue,
	}
	if t.PlayerAge != nil {
		age := int32(*t.PlayerAge)
		row.PlayerAge = &age
	}
	if t.TransferDate != nil {
		date := t.TransferDate.String()
		row.TransferDate = &date
	}
	return row
}
