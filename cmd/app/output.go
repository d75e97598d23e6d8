package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/QuickEst-app/QuickEst/internal/application"
	"github.com/QuickEst-app/QuickEst/internal/domain"
)

func printJSON(v any) error {
	b, err := jsonMarshal(v)
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func printKV(rows [][2]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", row[0], row[1])
	}
	_ = w.Flush()
}

func printTable(headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Println("no results")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

func printProjects(items []domain.Project) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		favorite := ""
		if item.Favorite {
			favorite = "*"
		}
		rows = append(rows, []string{
			strconv.FormatUint(uint64(item.ID), 10),
			favorite,
			item.Name,
			item.Description,
			formatTime(item.LastAccess),
		})
	}
	printTable([]string{"ID", "FAV", "NAME", "DESCRIPTION", "LAST_ACCESS"}, rows)
}

func printActors(items []domain.Actor) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.Code,
			item.Name,
			string(item.Complexity),
			item.Comment,
		})
	}
	printTable([]string{"CODE", "NAME", "COMPLEXITY", "COMMENT"}, rows)
}

func printUseCases(items []domain.UseCase) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.Code,
			item.Name,
			string(item.Complexity),
			strconv.Itoa(item.Transactions),
			item.Comment,
		})
	}
	printTable([]string{"CODE", "NAME", "COMPLEXITY", "TRANSACTIONS", "COMMENT"}, rows)
}

func printFactors(items []domain.Factor) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.Factor,
			item.Description,
			formatFloat(item.Weight),
			strconv.Itoa(item.Influence),
			formatFloat(item.Weight * float64(item.Influence)),
		})
	}
	printTable([]string{"FACTOR", "DESCRIPTION", "WEIGHT", "INFLUENCE", "RESULT"}, rows)
}

func printParameters(p domain.Parameters) {
	printKV([][2]string{
		{"cf", formatFloat(p.CF)},
		{"analysis_pct", formatFloat(p.AnalysisPercentage)},
		{"design_pct", formatFloat(p.DesignPercentage)},
		{"programming_pct", formatFloat(p.ProgrammingPercentage)},
		{"testing_pct", formatFloat(p.TestingPercentage)},
		{"overloading_pct", formatFloat(p.OverloadingPercentage)},
		{"actor_weights", weightTriple(p.ActorWeights)},
		{"use_case_weights", weightTriple(p.UseCaseWeights)},
	})
}

func weightTriple(w domain.WeightTriple) string {
	return fmt.Sprintf("%s/%s/%s", formatFloat(w.Simple), formatFloat(w.Average), formatFloat(w.Complex))
}

func printProjectData(data domain.ProjectData) {
	printProjects([]domain.Project{data.Project})
	fmt.Println()
	printParameters(data.Parameters)
	fmt.Println()
	printActors(data.Actors)
	fmt.Println()
	printUseCases(data.UseCases)
	fmt.Println()
	printFactors(data.TechnicalFactors)
	fmt.Println()
	printFactors(data.EnvironmentalFactors)
}

func printOverview(o application.Overview) {
	printKV([][2]string{
		{"project", o.Project.Name},
		{"uaw", formatFloat(o.Summary.UAW)},
		{"uucw", formatFloat(o.Summary.UUCW)},
		{"uucp", formatFloat(o.Summary.UUCP)},
		{"tfactor", formatFloat(o.Summary.TFactor)},
		{"tcf", formatFloat(o.Summary.TCF)},
		{"efactor", formatFloat(o.Summary.EFactor)},
		{"ecf", formatFloat(o.Summary.ECF)},
		{"ucp", formatFloat(o.Summary.UCP)},
		{"cf", formatFloat(o.Summary.CF)},
		{"effort_hours", formatFloat(o.Summary.Effort)},
	})
	fmt.Println()
	printTable([]string{"BAND", "SIMPLE", "AVERAGE", "COMPLEX", "TOTAL", "WEIGHTED"}, [][]string{
		{"actors", strconv.Itoa(o.Actors.Simple), strconv.Itoa(o.Actors.Average), strconv.Itoa(o.Actors.Complex), strconv.Itoa(o.Actors.Total), formatFloat(o.Actors.Weight)},
		{"use cases", strconv.Itoa(o.UseCases.Simple), strconv.Itoa(o.UseCases.Average), strconv.Itoa(o.UseCases.Complex), strconv.Itoa(o.UseCases.Total), formatFloat(o.UseCases.Weight)},
	})
	fmt.Println()
	printTable([]string{"FACTORS", "IRRELEVANT", "MEDIUM", "ESSENTIAL", "TOTAL"}, [][]string{
		{"technical", strconv.Itoa(o.TFactors.Irrelevant), strconv.Itoa(o.TFactors.Medium), strconv.Itoa(o.TFactors.Essential), formatFloat(o.TFactors.Total)},
		{"environmental", strconv.Itoa(o.EFactors.Irrelevant), strconv.Itoa(o.EFactors.Medium), strconv.Itoa(o.EFactors.Essential), formatFloat(o.EFactors.Total)},
	})
	fmt.Println()
	printTable([]string{"PHASE", "HOURS"}, [][]string{
		{"Analysis", formatFloat(o.Phases.Analysis)},
		{"Design", formatFloat(o.Phases.Design)},
		{"Programming", formatFloat(o.Phases.Programming)},
		{"Testing", formatFloat(o.Phases.Testing)},
		{"Overloading", formatFloat(o.Phases.Overloading)},
		{"Total", formatFloat(o.Phases.Total())},
	})
}
