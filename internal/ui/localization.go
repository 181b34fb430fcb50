package ui

import (
	"os"
	"strings"
)

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeyFile              = "file"
	KeyQuit              = "quit"
	KeyLanguage          = "language"
	KeySaveLocation      = "save_location"
	KeyVideoLink         = "video_link"
	KeyTitleOptional     = "title_optional"
	KeyEnterURL          = "enter_url"
	KeyTitlePlaceholder  = "title_placeholder"
	KeyBrowse            = "browse"
	KeyDownload          = "download"
	KeyStatusIdle        = "status_idle"
	KeyStatusProgress    = "status_progress"
	KeyStatusCalculating = "status_calculating"
	KeyStatusFinished    = "status_finished"
	KeyStatusFailed      = "status_failed"
	KeyErrorTitle        = "error_title"
	KeyPleaseEnterURL    = "please_enter_url"
	KeyPleaseChooseDir   = "please_choose_dir"
	KeyErrorOccurred     = "error_occurred"
	KeyRenameFailed      = "rename_failed"
	KeyAlreadyRunning    = "already_running"
	KeyDoneTitle         = "done_title"
	KeyDoneMessage       = "done_message"
	KeyShowInFolder      = "show_in_folder"
	KeyClose             = "close"
	KeyErrorOpeningFile  = "error_opening_file"
)

// Language codes
const (
	LangSystem     = "system"
	LangEnglish    = "en"
	LangKorean     = "ko"
	LangRussian    = "ru"
	LangPortuguese = "pt"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: LangEnglish,
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == LangSystem {
		lang = systemLanguage()
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// systemLanguage reads the language part of the POSIX locale variables
func systemLanguage() string {
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		value := os.Getenv(env)
		if value == "" || value == "C" || value == "POSIX" {
			continue
		}
		if idx := strings.IndexAny(value, "_.@-"); idx > 0 {
			value = value[:idx]
		}
		return strings.ToLower(value)
	}
	return LangEnglish
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts[LangEnglish]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		LangEnglish:    "English",
		LangKorean:     "한국어",
		LangRussian:    "Русский",
		LangPortuguese: "Português",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	// English texts
	l.texts[LangEnglish] = map[string]string{
		KeyAppTitle:          "YouTube MP3 Downloader",
		KeyFile:              "File",
		KeyQuit:              "Quit",
		KeyLanguage:          "Language",
		KeySaveLocation:      "Save location:",
		KeyVideoLink:         "Video link:",
		KeyTitleOptional:     "Title (optional):",
		KeyEnterURL:          "https://youtube.com/watch?v=...",
		KeyTitlePlaceholder:  "Leave empty to keep the video title",
		KeyBrowse:            "Browse",
		KeyDownload:          "Download",
		KeyStatusIdle:        "Status: waiting",
		KeyStatusProgress:    "Downloading: %s",
		KeyStatusCalculating: "Downloading: calculating...",
		KeyStatusFinished:    "Download complete!",
		KeyStatusFailed:      "Status: failed",
		KeyErrorTitle:        "Error",
		KeyPleaseEnterURL:    "Please enter a video link.",
		KeyPleaseChooseDir:   "Please choose a save location.",
		KeyErrorOccurred:     "An error occurred: %s",
		KeyRenameFailed:      "Could not rename the file: %s",
		KeyAlreadyRunning:    "A download is already in progress.",
		KeyDoneTitle:         "Done",
		KeyDoneMessage:       "Download and conversion succeeded:\n%s",
		KeyShowInFolder:      "Show in folder",
		KeyClose:             "Close",
		KeyErrorOpeningFile:  "Error opening file",
	}

	// Korean texts
	l.texts[LangKorean] = map[string]string{
		KeyAppTitle:          "YouTube MP3 다운로더",
		KeyFile:              "파일",
		KeyQuit:              "종료",
		KeyLanguage:          "언어",
		KeySaveLocation:      "저장 경로:",
		KeyVideoLink:         "유튜브 링크:",
		KeyTitleOptional:     "저장할 제목(선택):",
		KeyTitlePlaceholder:  "비워 두면 영상 제목을 사용합니다",
		KeyBrowse:            "찾아보기",
		KeyDownload:          "다운로드",
		KeyStatusIdle:        "진행 상황: 대기 중",
		KeyStatusProgress:    "진행 중: %s",
		KeyStatusCalculating: "진행 중: 계산 중...",
		KeyStatusFinished:    "다운로드 완료!",
		KeyStatusFailed:      "진행 상황: 실패",
		KeyErrorTitle:        "오류",
		KeyPleaseEnterURL:    "유튜브 영상 링크를 입력해주세요.",
		KeyPleaseChooseDir:   "저장할 경로를 지정해주세요.",
		KeyErrorOccurred:     "오류가 발생했습니다: %s",
		KeyRenameFailed:      "파일 이름을 바꿀 수 없습니다: %s",
		KeyAlreadyRunning:    "이미 다운로드가 진행 중입니다.",
		KeyDoneTitle:         "완료",
		KeyDoneMessage:       "다운로드 및 변환 성공:\n%s",
		KeyShowInFolder:      "폴더에서 보기",
		KeyClose:             "닫기",
		KeyErrorOpeningFile:  "파일을 여는 중 오류",
	}

	// Russian texts
	l.texts[LangRussian] = map[string]string{
		KeyAppTitle:          "YouTube MP3 Загрузчик",
		KeyFile:              "Файл",
		KeyQuit:              "Выход",
		KeyLanguage:          "Язык",
		KeySaveLocation:      "Папка сохранения:",
		KeyVideoLink:         "Ссылка на видео:",
		KeyTitleOptional:     "Название (необязательно):",
		KeyTitlePlaceholder:  "Оставьте пустым, чтобы взять название видео",
		KeyBrowse:            "Обзор",
		KeyDownload:          "Скачать",
		KeyStatusIdle:        "Статус: ожидание",
		KeyStatusProgress:    "Загрузка: %s",
		KeyStatusCalculating: "Загрузка: вычисление...",
		KeyStatusFinished:    "Загрузка завершена!",
		KeyStatusFailed:      "Статус: ошибка",
		KeyErrorTitle:        "Ошибка",
		KeyPleaseEnterURL:    "Пожалуйста, введите ссылку на видео.",
		KeyPleaseChooseDir:   "Пожалуйста, выберите папку сохранения.",
		KeyErrorOccurred:     "Произошла ошибка: %s",
		KeyRenameFailed:      "Не удалось переименовать файл: %s",
		KeyAlreadyRunning:    "Загрузка уже выполняется.",
		KeyDoneTitle:         "Готово",
		KeyDoneMessage:       "Загрузка и конвертация выполнены:\n%s",
		KeyShowInFolder:      "Показать в папке",
		KeyClose:             "Закрыть",
		KeyErrorOpeningFile:  "Ошибка открытия файла",
	}

	// Portuguese texts
	l.texts[LangPortuguese] = map[string]string{
		KeyAppTitle:          "YouTube MP3 Downloader",
		KeyFile:              "Arquivo",
		KeyQuit:              "Sair",
		KeyLanguage:          "Idioma",
		KeySaveLocation:      "Salvar em:",
		KeyVideoLink:         "Link do vídeo:",
		KeyTitleOptional:     "Título (opcional):",
		KeyTitlePlaceholder:  "Deixe vazio para usar o título do vídeo",
		KeyBrowse:            "Navegar",
		KeyDownload:          "Baixar",
		KeyStatusIdle:        "Status: aguardando",
		KeyStatusProgress:    "Baixando: %s",
		KeyStatusCalculating: "Baixando: calculando...",
		KeyStatusFinished:    "Download concluído!",
		KeyStatusFailed:      "Status: falhou",
		KeyErrorTitle:        "Erro",
		KeyPleaseEnterURL:    "Por favor, digite o link do vídeo.",
		KeyPleaseChooseDir:   "Por favor, escolha onde salvar.",
		KeyErrorOccurred:     "Ocorreu um erro: %s",
		KeyRenameFailed:      "Não foi possível renomear o arquivo: %s",
		KeyAlreadyRunning:    "Um download já está em andamento.",
		KeyDoneTitle:         "Concluído",
		KeyDoneMessage:       "Download e conversão concluídos:\n%s",
		KeyShowInFolder:      "Mostrar na pasta",
		KeyClose:             "Fechar",
		KeyErrorOpeningFile:  "Erro ao abrir arquivo",
	}
}
