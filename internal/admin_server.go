package internal

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxInspectRows = 500

type InspectRow struct {
	Key       string
	Type      string
	Timestamp string
	EntityID  string
	Detail    string
}

// NewAdminServer serves the prometheus metrics on /metrics and a plain text dump
// of badger keys on /inspect?prefix=msg:
func NewAdminServer(address string, db *badger.DB, gatherer prometheus.Gatherer) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/inspect", func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = "msg:"
		}
		rows, err := Scan(db, prefix, maxInspectRows)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		RenderRows(w, rows)
	})
	return &http.Server{Addr: address, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
}

// Scan maps at most limit keys under prefix to inspect rows.
func Scan(db *badger.DB, prefix string, limit int) ([]InspectRow, error) {
	var rows []InspectRow
	err := db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()
		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)) && len(rows) < limit; it.Next() {
			item := it.Item()
			rows = append(rows, DefaultMapper(string(item.Key()), item.ValueSize()))
		}
		return nil
	})
	return rows, err
}

// DefaultMapper reads the layout "{type}:{owner}:{timestamp}:{id}" shared by the
// time ordered keys. Other keys keep placeholders.
func DefaultMapper(key string, size int64) InspectRow {
	parts := strings.Split(key, ":")
	row := InspectRow{
		Key:       key,
		Type:      parts[0],
		Timestamp: "--:--:--",
		EntityID:  "--------",
		Detail:    "Size: " + strconv.FormatInt(size, 10) + " bytes",
	}
	if len(parts) >= 4 {
		if tsNano, err := strconv.ParseInt(parts[2], 10, 64); err == nil {
			row.Timestamp = time.Unix(0, tsNano).UTC().Format(time.DateTime)
		}
		row.EntityID = parts[3]
	} else if len(parts) == 2 {
		row.EntityID = parts[1]
	}
	if len(row.EntityID) > 8 {
		row.EntityID = row.EntityID[:8]
	}
	return row
}

func RenderRows(w io.Writer, rows []InspectRow) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Type", "Timestamp", "Entity", "Detail", "Key"})
	table.SetAutoWrapText(false)
	for _, row := range rows {
		table.Append([]string{row.Type, row.Timestamp, row.EntityID, row.Detail, row.Key})
	}
	table.SetFooter([]string{"", "", "", "Rows", fmt.Sprint(len(rows))})
	table.Render()
}
