package storage

// Signer выдает временные подписанные ссылки на объекты хранилища.
// Имя объекта это id записи (Message) в виде строки.
type Signer interface {
	SignUpload(object string) (string, error)
	SignDownload(object string) (string, error)
	SignDelete(object string) (string, error)
}
