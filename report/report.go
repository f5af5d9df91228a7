// Package report prepares a result set for display: the flat news table,
// the sentiment distribution and the word frequencies behind the cloud.
// Every section detects its own empty input and reports it with a
// dedicated error instead of failing the whole dashboard.
package report

import (
	"errors"
	"time"

	"github.com/scipunch/newspulse/fetcher"
	"github.com/scipunch/newspulse/pipeline"
	"github.com/scipunch/newspulse/sentiment"
)

var (
	ErrNoRows      = errors.New("no news left after the date filter")
	ErrNoChartData = errors.New("no news available for the sentiment chart")
	ErrNoCloudText = errors.New("not enough text for the word cloud")
)

const Disclaimer = "Esta análise é baseada em regras simples e pode não capturar sarcasmo ou contextos complexos."

// Describe returns the user-facing message for a dashboard or pipeline condition
func Describe(err error) string {
	var fetchErr *fetcher.FetchError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoRows):
		return "Nenhuma notícia encontrada após o filtro de data."
	case errors.Is(err, ErrNoChartData):
		return "Nenhuma notícia disponível para gerar o gráfico de sentimentos."
	case errors.Is(err, ErrNoCloudText):
		return "Não há texto suficiente para gerar a nuvem de palavras."
	case errors.Is(err, pipeline.ErrNoResults):
		return "Nenhuma notícia encontrada."
	case errors.As(err, &fetchErr):
		return "Erro ao buscar notícias: " + fetchErr.Error()
	default:
		return err.Error()
	}
}

// Row is one line of the news table and of every export
type Row struct {
	Index     int
	Title     string
	Sentiment sentiment.Label
	Link      string
	Published *time.Time
}

// Table flattens items into rows numbered from 1
func Table(items []pipeline.ClassifiedItem) ([]Row, error) {
	if len(items) == 0 {
		return nil, ErrNoRows
	}
	rows := make([]Row, 0, len(items))
	for i, item := range items {
		rows = append(rows, Row{
			Index:     i + 1,
			Title:     item.Title,
			Sentiment: item.Sentiment,
			Link:      item.Link,
			Published: item.Published,
		})
	}
	return rows, nil
}

// Dashboard is everything needed to render one view of a result set
type Dashboard struct {
	Query     string
	FetchedAt time.Time
	Since     *time.Time
	Total     int

	Rows    []Row
	RowsErr error

	Distribution Distribution
	ChartErr     error

	Words    []WordCount
	CloudErr error
}

// Build filters rs by since and computes every dashboard section
func Build(rs pipeline.ResultSet, since *time.Time, cloudWords int) Dashboard {
	items := Filter(rs.Items, since)

	d := Dashboard{
		Query:     rs.Query,
		FetchedAt: rs.FetchedAt,
		Since:     since,
		Total:     len(rs.Items),
	}
	d.Rows, d.RowsErr = Table(items)
	d.Distribution, d.ChartErr = Distribute(items)
	d.Words, d.CloudErr = WordFrequencies(items, cloudWords)
	return d
}
