package cache

// Envelope 是所有字符串化值的落盘形式。IsEncrypted 为 true 时 Data 是密文，否则是明文，
// 落盘时 Data 永不为空。
type Envelope struct {
	IsEncrypted bool   `msgpack:"is_encrypted"`
	Data        string `msgpack:"data"`
}
