package curriculum

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/lingobot/internal/database"
)

const sampleCSV = `unit,node,level,type,prompt,options,correct,explanation
Foundations,Greetings,Level 1,multiple_choice,How do you say hello?,Hola|Adios|Gracias,Hola,Hola means hello
Foundations,Greetings,Level 1,true_false,Adios means goodbye,True|False,True,
Foundations,Greetings,Level 2,ordering,Order the words,,el gato negro,Adjectives follow nouns
Foundations,Numbers,Level 1,multiple_choice,What is dos?,one|two|three,two,
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "curriculum.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0644))
	return path
}

func TestImportFromCSV(t *testing.T) {
	require.NoError(t, database.ConnectForTest())
	t.Cleanup(func() { _ = database.Close() })
	ctx := context.Background()

	config := DefaultImportConfig()
	config.FilePath = writeSample(t)

	result, err := NewImporter().Import(ctx, config)
	require.NoError(t, err)

	assert.Equal(t, 4, result.TotalProcessed)
	assert.Equal(t, 1, result.UnitsCreated)
	assert.Equal(t, 2, result.NodesCreated)
	assert.Equal(t, 3, result.LevelsCreated)
	assert.Equal(t, 4, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.Empty(t, result.Errors)

	units, err := database.NewCurriculumRepository().GetUnits(ctx)
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "Foundations", units[0].Title)

	// Exercises without options are stored with an empty option list
	greetings, found, err := database.NewCurriculumRepository().GetNodeByTitle(ctx, units[0].ID, "Greetings")
	require.NoError(t, err)
	require.True(t, found)

	level2, found, err := database.NewCurriculumRepository().GetLevelByTitle(ctx, greetings.ID, "Level 2")
	require.NoError(t, err)
	require.True(t, found)

	exercises, err := database.NewExerciseRepository().GetByLevel(ctx, level2.ID)
	require.NoError(t, err)
	require.Len(t, exercises, 1)
	assert.Equal(t, "ordering", exercises[0].Type)
	assert.Equal(t, "el gato negro", exercises[0].CorrectAnswer)
}

func TestImportIsIdempotent(t *testing.T) {
	require.NoError(t, database.ConnectForTest())
	t.Cleanup(func() { _ = database.Close() })
	ctx := context.Background()

	config := DefaultImportConfig()
	config.FilePath = writeSample(t)

	_, err := NewImporter().Import(ctx, config)
	require.NoError(t, err)

	// Re-importing the same file updates rows instead of duplicating them
	result, err := NewImporter().Import(ctx, config)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 4, result.Updated)
	assert.Equal(t, 0, result.UnitsCreated)
}

func TestImportSkipsIncompleteRows(t *testing.T) {
	require.NoError(t, database.ConnectForTest())
	t.Cleanup(func() { _ = database.Close() })
	ctx := context.Background()

	csv := "unit,node,level,type,prompt,options,correct,explanation\n" +
		"U,N,L,multiple_choice,,a|b,a,\n" + // empty prompt
		"U,N,,multiple_choice,q,a|b,a,\n" + // empty level
		"short,row\n"

	path := filepath.Join(t.TempDir(), "broken.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0644))

	config := DefaultImportConfig()
	config.FilePath = path

	result, err := NewImporter().Import(ctx, config)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Skipped)
	assert.Equal(t, 0, result.Created)
}
