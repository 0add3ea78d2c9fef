// Package lexiscreen embeds the dyslexia screening pipeline in a Go program
// without running the HTTP service.
//
// Artifacts (feature schema, typical values, XGBoost model) are loaded once
// from a directory or from a Valkey/Redis registry populated by
// `lexiscreen publish`.
//
//	client, _ := lexiscreen.New(ctx, lexiscreen.WithArtifactDir("artifacts"))
//	defer client.Close()
//
//	res, err := client.Screen(ctx, lexiscreen.Input{
//	    Overrides:   map[string]float64{"Age": 12, "Accuracy1": 0.41},
//	    UseDefaults: true,
//	})
//	pdf, _ := client.ExportPDF(res)
package lexiscreen
