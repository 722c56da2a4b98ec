package bot

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/vocabot/internal/i18n"
	"github.com/example/vocabot/pkg/models"
)

// handleImportDocument downloads an admin-uploaded spreadsheet and bulk
// imports its word pairs into the sender's vocabulary.
func (b *Bot) handleImportDocument(message *tgbotapi.Message, user *models.User, lang i18n.Lang) {
	b.setAwaitingImport(user.ID, false)
	chatID := message.Chat.ID

	fileURL, err := b.api.GetFileDirectURL(message.Document.FileID)
	if err != nil {
		log.Printf("Error resolving file URL for %d: %v", user.ID, err)
		b.send(chatID, i18n.T(lang, "import.fetchError"))
		return
	}

	path, err := downloadToTemp(fileURL, message.Document.FileName)
	if err != nil {
		log.Printf("Error downloading import file for %d: %v", user.ID, err)
		b.send(chatID, i18n.T(lang, "import.downloadError"))
		return
	}
	defer os.Remove(path)

	result, err := b.importer.ImportFile(path, user)
	if err != nil {
		log.Printf("Error importing words for %d: %v", user.ID, err)
		b.send(chatID, i18n.T(lang, "import.parseError"))
		return
	}

	text := i18n.T(lang, "import.done", i18n.Params{
		"added":   result.Added,
		"skipped": result.Skipped,
	})
	if len(result.Errors) > 0 {
		text += "\n" + i18n.T(lang, "import.errorsLine", i18n.Params{"count": len(result.Errors)})
		for _, e := range result.Errors {
			log.Printf("Import error for %d: %s", user.ID, e)
		}
	}
	b.send(chatID, text)
}

func downloadToTemp(fileURL, name string) (string, error) {
	resp, err := http.Get(fileURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	ext := filepath.Ext(name)
	if ext == "" {
		ext = ".xlsx"
	}
	tmp, err := os.CreateTemp("", "import-*"+ext)
	if err != nil {
		return "", err
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}
