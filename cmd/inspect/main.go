package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"presence-chat/internal"
	"presence-chat/repositories"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"
)

type Config struct {
	BadgerFilepath string `envconfig:"BADGER_FILEPATH" required:"true"`
	// INSPECT_COLOURS enables colorized section headers
	Colours bool `envconfig:"INSPECT_COLOURS" default:"true"`
}

func main() {
	_ = godotenv.Load()
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		log.Fatal("Config error: ", err)
	}
	prefix := flag.String("prefix", "", "Only dump keys under this prefix (participant:, msg:, msgid:)")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	prefixes := []string{repositories.ParticipantPrefix, repositories.MessagePrefix}
	if *prefix != "" {
		prefixes = []string{*prefix}
	}
	for _, p := range prefixes {
		if err = dump(db, p, config.Colours); err != nil {
			log.Fatal(err)
		}
	}
}

// dump prints every entry under prefix as a borderless table.
func dump(db *badger.DB, prefix string, colours bool) error {
	header := fmt.Sprintf("  ====== %s ======", strings.TrimSuffix(prefix, ":"))
	if colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	fmt.Println(header)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "Time", "Subject", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			err := item.Value(func(v []byte) error {
				row := internal.PresenceMapper(string(item.Key()), v)
				table.Append([]string{row.Key, row.Type, row.Timestamp, row.Subject, row.Detail})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	table.Render()
	return nil
}
