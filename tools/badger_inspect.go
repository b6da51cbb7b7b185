// Command badger_inspect dumps the contents of a plaza store for
// debugging. It opens the database read-only, so it can run against a
// live worker's directory.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"plaza/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dbPath := flag.String("db", "./data", "Path to badger DB")
	prefix := flag.String("prefix", "msg:", "Prefix to scan (user:, msg: or prd:)")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "ID", "Created", "Detail"})
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

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.Key())

			err := item.Value(func(v []byte) error {
				id, created, detail, err := describe(key, v)
				if err != nil {
					// Log and keep scanning rather than aborting the dump.
					fmt.Printf("Error unmarshaling key %s: %v\n", key, err)
					return nil
				}
				table.Append([]string{key, shortID(id), created.Format("15:04:05"), detail})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

func describe(key string, value []byte) (string, time.Time, string, error) {
	switch {
	case strings.HasPrefix(key, "user:"):
		var u domain.User
		if err := json.Unmarshal(value, &u); err != nil {
			return "", time.Time{}, "", err
		}
		detail := u.Username
		if u.Admin {
			detail += " (admin)"
		}
		return u.ID.String(), u.CreatedAt, detail, nil
	case strings.HasPrefix(key, "msg:"):
		var m domain.Message
		if err := json.Unmarshal(value, &m); err != nil {
			return "", time.Time{}, "", err
		}
		return m.ID.String(), m.At, fmt.Sprintf("%s: %s", m.Author, m.Content), nil
	case strings.HasPrefix(key, "prd:"):
		var p domain.Product
		if err := json.Unmarshal(value, &p); err != nil {
			return "", time.Time{}, "", err
		}
		return p.ID.String(), p.CreatedAt, fmt.Sprintf("%s %.2f x%d", p.Name, p.Price, p.Stock), nil
	default:
		return "", time.Time{}, string(value), nil
	}
}

// shortID keeps the dump readable: 8 characters are enough to tell
// rows apart.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)
	return badger.Open(opts)
}
