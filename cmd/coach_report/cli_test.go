package main

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jonathan/coach-report/internal/types"
)

const cliWorkoutPlan = `TRAINING BLOCK A: Month 1
1 - Bench Press 3x10
2 - Squat 4x12/10/8/6`

func TestGenerateCommand_MissingKindFlag(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "generate", "--plan", "plan.txt")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "required flag(s) \"kind\" not set")
}

func TestGenerateCommand_InvalidKind(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "generate", "--plan", "plan.txt", "--kind", "invoice")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "invalid kind")
}

func TestGenerateCommand_Workout(t *testing.T) {
	binaryPath := getBinaryPath(t)
	tmpDir := t.TempDir()
	plan := writeFile(t, tmpDir, "plan.txt", cliWorkoutPlan)
	profile := writeFile(t, tmpDir, "ana.json", `{"name":"Ana Souza"}`)
	outDir := filepath.Join(tmpDir, "out")

	cmd := exec.Command(binaryPath, "generate",
		"--plan", plan,
		"--profile", profile,
		"--kind", "workout",
		"--date", "2026-03-14",
		"--out", outDir)
	cmd.Env = append(os.Environ(), "DATABASE_URL=")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, string(output))

	assert.Contains(t, string(output), "Generated")
	content, err := os.ReadFile(filepath.Join(outDir, "workout-ana-souza-2026-03-14.pdf"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "%PDF-"))
}

func TestGenerateCommand_EmptyPlan(t *testing.T) {
	binaryPath := getBinaryPath(t)
	tmpDir := t.TempDir()
	plan := writeFile(t, tmpDir, "plan.txt", "  \n\n")

	cmd := exec.Command(binaryPath, "generate", "--plan", plan, "--kind", "nutrition", "--out", tmpDir)
	cmd.Env = append(os.Environ(), "DATABASE_URL=")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "nothing to generate")
}

func TestParseCommand(t *testing.T) {
	binaryPath := getBinaryPath(t)
	tmpDir := t.TempDir()
	plan := writeFile(t, tmpDir, "plan.txt", cliWorkoutPlan)

	cmd := exec.Command(binaryPath, "parse", "--plan", plan, "--variant", "workout")
	output, err := cmd.Output()
	require.NoError(t, err)

	var parsed types.Plan
	require.NoError(t, json.Unmarshal(output, &parsed))
	require.Len(t, parsed.Blocks, 1)
	assert.Equal(t, "A", parsed.Blocks[0].Letter)
	assert.Len(t, parsed.Blocks[0].Exercises, 2)
}

func TestParseCommand_InvalidVariant(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "parse", "--plan", "plan.txt", "--variant", "poetry")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "invalid variant")
}

func TestMatchCommand(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "match", "Definitely Not An Exercise")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, string(output))

	assert.Contains(t, string(output), "EXERCISE VIDEOS")
	assert.Contains(t, string(output), "no catalog entry")
}

func TestPreviewCommand_HTML(t *testing.T) {
	binaryPath := getBinaryPath(t)
	tmpDir := t.TempDir()
	plan := writeFile(t, tmpDir, "plan.txt", cliWorkoutPlan)
	out := filepath.Join(tmpDir, "preview.html")

	cmd := exec.Command(binaryPath, "preview", "--plan", plan, "--format", "html", "--out", out)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, string(output))

	html, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(html), "<html")
	assert.Contains(t, string(html), "Bench Press")
}

func TestExportCommand(t *testing.T) {
	binaryPath := getBinaryPath(t)
	tmpDir := t.TempDir()
	plan := writeFile(t, tmpDir, "plan.txt", cliWorkoutPlan)
	out := filepath.Join(tmpDir, "plan.xlsx")

	cmd := exec.Command(binaryPath, "export", "--plan", plan, "--out", out, "--client", "Ana")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, string(output))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, []string{"Plan", "Block A"}, f.GetSheetList())
}

func TestExportCommand_RequiresXLSX(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "export", "--plan", "plan.txt", "--out", "plan.csv")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), ".xlsx")
}

func TestBatchCommand(t *testing.T) {
	binaryPath := getBinaryPath(t)
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "workout.txt", cliWorkoutPlan)
	writeFile(t, tmpDir, "nutrition.txt", "Breakfast\nOatmeal\n50g")
	writeFile(t, tmpDir, "ana.json", `{"name":"Ana Souza"}`)
	manifest := writeFile(t, tmpDir, "batch.yaml", `
out: out
reports:
  - kind: workout
    plan: workout.txt
    profile: ana.json
    date: 2026-03-14
  - kind: nutrition
    plan: nutrition.txt
    profile: ana.json
    date: 2026-03-14
`)

	cmd := exec.Command(binaryPath, "batch", "--manifest", manifest)
	cmd.Env = append(os.Environ(), "DATABASE_URL=")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, string(output))

	assert.Contains(t, string(output), "Generated 2 of 2 report(s)")
	assert.FileExists(t, filepath.Join(tmpDir, "out", "workout-ana-souza-2026-03-14.pdf"))
	assert.FileExists(t, filepath.Join(tmpDir, "out", "nutrition-ana-souza-2026-03-14.pdf"))
}

func TestReportsCommand_RequiresDatabase(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "reports", "list")
	cmd.Env = append(os.Environ(), "DATABASE_URL=")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "DATABASE_URL not set")
}
