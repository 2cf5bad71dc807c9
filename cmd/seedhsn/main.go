// Command seedhsn converts the GST HSN/SAC rate workbook into a SQL seed for
// the hsn_rates table. It reads the goods sheet (first sheet) and the
// SAC_Master services sheet.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"github.com/xuri/excelize/v2"
)

func main() {
	log := logrus.New()
	app := &cli.App{
		Name:  "seedhsn",
		Usage: "generate db/seeds/hsn_rates.sql from the HSN/SAC rate workbook",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "path to the .xlsx workbook", Required: true},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: "db/seeds/hsn_rates.sql", Usage: "SQL file to write"},
			&cli.StringFlag{Name: "sac-sheet", Value: "SAC_Master", Usage: "name of the services sheet"},
		},
		Action: func(c *cli.Context) error {
			return run(log, c.String("input"), c.String("output"), c.String("sac-sheet"))
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("seedhsn failed")
	}
}

func run(log logrus.FieldLogger, input, output, sacSheet string) error {
	f, err := excelize.OpenFile(input)
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	set := newRateSet()

	goodsRows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return fmt.Errorf("read goods sheet: %w", err)
	}
	goods := set.addGoods(goodsRows)
	log.WithField("rows", goods).Info("goods sheet parsed")

	sacRows, err := f.GetRows(sacSheet)
	if err != nil {
		return fmt.Errorf("read %s sheet: %w", sacSheet, err)
	}
	services := set.addServices(sacRows)
	log.WithField("rows", services).Info("services sheet parsed")

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	if err := writeSeed(out, set.entries); err != nil {
		return fmt.Errorf("write seed: %w", err)
	}

	log.WithFields(logrus.Fields{
		"entries": len(set.entries),
		"skipped": set.skipped,
		"output":  output,
	}).Info("seed written")
	return nil
}
