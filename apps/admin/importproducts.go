package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/edusurvey/core/survey"
)

// product CSV columns; id and name are required, the others optional
var productColumns = []string{
	"id", "name", "provider", "type",
	"criteria_1_1", "criteria_1_2", "criteria_1_3",
	"criteria_2_1", "criteria_3_1", "criteria_4_1",
	"criteria_5_1", "criteria_5_2", "criteria_5_3",
}

func (cli *commandLine) importProductsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "importproducts FILE.csv",
		Short: "Load the EduZip catalogue export (header: " + strings.Join(productColumns, ",") + ")",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				_ = cmd.Usage()
				return errHelp
			}
			return cli.importProducts(args[0])
		},
	}
}

func (cli *commandLine) importProducts(path string) error {
	f, err := cli.fs.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening products file")
	}
	defer f.Close()

	products, err := readProducts(f)
	if err != nil {
		return err
	}
	n, err := cli.surveySvc.ImportProducts(context.Background(), products...)
	cli.printf("Imported %d/%d product(s)\n", n, len(products))
	return err
}

// readProducts parses a header-led CSV; columns are matched by name, in any order.
func readProducts(r io.Reader) ([]survey.Product, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "reading products header")
	}
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))] = i
	}
	for _, col := range []string{"id", "name"} {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("products header: missing %q column", col)
		}
	}

	products := make([]survey.Product, 0)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading products")
		}
		get := func(col string) string {
			if i, ok := index[col]; ok && i < len(record) {
				return strings.TrimSpace(record[i])
			}
			return ""
		}

		id, err := strconv.ParseInt(get("id"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("products line %d: invalid id %q", line, get("id"))
		}
		products = append(products, survey.Product{
			ID:          id,
			Name:        get("name"),
			Provider:    get("provider"),
			Type:        get("type"),
			Criteria1_1: get("criteria_1_1"),
			Criteria1_2: get("criteria_1_2"),
			Criteria1_3: get("criteria_1_3"),
			Criteria2_1: get("criteria_2_1"),
			Criteria3_1: get("criteria_3_1"),
			Criteria4_1: get("criteria_4_1"),
			Criteria5_1: get("criteria_5_1"),
			Criteria5_2: get("criteria_5_2"),
			Criteria5_3: get("criteria_5_3"),
		})
	}
	return products, nil
}
