package internal

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"presence-chat/repositories"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

//go:embed inspect.html
var templatesFS embed.FS

const defaultInspectPrefix = repositories.MessagePrefix

type InspectRow struct {
	Key       string
	Type      string
	Timestamp string
	Subject   string
	Detail    string
}

type RowMapper func(key string, val []byte) InspectRow
type StatsProvider func() map[string]any

type PageData struct {
	Prefix string
	Items  []InspectRow
	Stats  map[string]any
}

// NewDebugHandler renders the Badger entries under ?prefix= as an HTML table.
func NewDebugHandler(db *badger.DB, mapper RowMapper, statsProvider StatsProvider) http.Handler {
	tmpl := template.Must(template.ParseFS(templatesFS, "inspect.html"))
	if mapper == nil {
		mapper = DefaultMapper
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = defaultInspectPrefix
		}

		data := PageData{
			Prefix: prefix,
			Stats:  make(map[string]any),
		}
		if statsProvider != nil {
			data.Stats = statsProvider()
		}

		_ = db.View(func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
				item := it.Item()
				_ = item.Value(func(val []byte) error {
					data.Items = append(data.Items, mapper(string(item.Key()), val))
					return nil
				})
			}
			return nil
		})

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = tmpl.Execute(w, data)
	})
}

// StartDebugServer serves the inspector on every interface until the process exits.
func StartDebugServer(log *slog.Logger, db *badger.DB, port int, endpoint string, mapper RowMapper, statsProvider StatsProvider) {
	mux := http.NewServeMux()
	mux.Handle(endpoint, NewDebugHandler(db, mapper, statsProvider))

	go func() {
		if err := http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", port), mux); err != nil {
			log.Warn("Debug inspector stopped", "port", port, "error", err)
		}
	}()
}

func DefaultMapper(key string, val []byte) InspectRow {
	return InspectRow{
		Key:       key,
		Type:      "RAW",
		Timestamp: "--:--:--",
		Subject:   "-",
		Detail:    "Size: " + strconv.Itoa(len(val)) + " bytes",
	}
}

// PresenceMapper decodes participants and messages, other keys fall back to DefaultMapper.
func PresenceMapper(key string, val []byte) InspectRow {
	row := DefaultMapper(key, val)
	switch {
	case strings.HasPrefix(key, repositories.ParticipantPrefix):
		var p repositories.DiskParticipant
		if err := json.Unmarshal(val, &p); err != nil {
			row.Detail = "Error: unmarshal failed"
			return row
		}
		row.Type = "PARTICIPANT"
		row.Subject = p.Name
		row.Timestamp = time.Unix(0, p.LastSeen).Format("15:04:05")
		row.Detail = p.ID
	case strings.HasPrefix(key, repositories.MessageIndexPrefix):
		row.Type = "INDEX"
		row.Detail = string(val)
	case strings.HasPrefix(key, repositories.MessagePrefix):
		var m repositories.DiskMessage
		if err := json.Unmarshal(val, &m); err != nil {
			row.Detail = "Error: unmarshal failed"
			return row
		}
		row.Type = strings.ToUpper(m.Kind)
		row.Subject = fmt.Sprintf("%s -> %s", m.From, m.To)
		row.Timestamp = m.Time
		row.Detail = m.Text
	}
	return row
}
