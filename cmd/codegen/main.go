package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/aron/lazy/cmd/codegen/templates"
	"github.com/urfave/cli/v3"
)

const arityCountKey = "count"

func main() {
	cmd := &cli.Command{
		Name:  "generate",
		Usage: "Generate the arity-N Let helpers",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  arityCountKey,
				Usage: "Highest Let arity to generate",
				Value: 4,
			},
		},
		Action: generate,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func generate(ctx context.Context, cmd *cli.Command) error {
	start := time.Now()
	log.Printf("Codegen for Let helpers started")
	defer func() {
		log.Printf("Codegen for Let helpers finished in %v", time.Since(start))
	}()

	count := int(cmd.Uint(arityCountKey))

	contents := templates.DeriveGen("fixture", count)
	if err := os.WriteFile("fixture/derive.go", []byte(contents), 0644); err != nil {
		return err
	}

	contents = templates.DeriveGen("stamp", count)
	if err := os.WriteFile("stamp/derive.go", []byte(contents), 0644); err != nil {
		return err
	}

	return nil
}
