package lib

const (
	MAX_PAGE_SIZE       = 16384
	DEFAULT_PAGE_SIZE   = 8192
	DEFAULT_POOL_FRAMES = 64

	PAGE_HEADER_SIZE = 4

	DB_DIR           = "bufferdb"
	PAGE_FILE_NAME   = "bufferdb.page"
	CONFIG_FILE_NAME = "bufferdb.ini"
)

var PAGE_SIZE_ARRAY = []int{512, 1024, 2048, 4096, 8192, 16384}
