package js_parser

import (
	"strings"
	"testing"

	"github.com/yonasBSD/mako/internal/logger"
	"github.com/yonasBSD/mako/internal/test"
)

var jsCode = `
import { debounce } from './utils';

const DEFAULT_OPTIONS = { timeout: 1000, retries: 3 };

class EventEmitter {
  constructor() {
    this.listeners = new Map();
  }

  on(event, callback) {
    if (!this.listeners.has(event)) {
      this.listeners.set(event, []);
    }
    this.listeners.get(event).push(callback);
    return this;
  }

  emit(event, ...args) {
    for (const cb of this.listeners.get(event) ?? []) {
      cb(...args);
    }
  }
}

async function fetchWithRetry(url, { timeout, retries } = DEFAULT_OPTIONS) {
  let lastError;
  for (let i = 0; i < retries; i++) {
    try {
      const response = await fetch(url, { signal: AbortSignal.timeout(timeout) });
      if (!response.ok) throw new Error(` + "`HTTP ${response.status}`" + `);
      return await response.json();
    } catch (err) {
      lastError = err;
      await new Promise(resolve => setTimeout(resolve, 2 ** i * 100));
    }
  }
  throw lastError;
}

function* chunk(items, size) {
  for (let i = 0; i < items.length; i += size) {
    yield items.slice(i, i + size);
  }
}

export const log = debounce((...args) => {
  if (process.env.NODE_ENV !== 'production') {
    console.log(Buffer.from(args.join(' ')).toString('base64'));
  }
}, 100);

export default { EventEmitter, fetchWithRetry, chunk };
`

func BenchmarkParseJS(b *testing.B) {
	source := test.SourceForTest(jsCode)
	b.SetBytes(int64(len(jsCode)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		log := logger.NewDeferLog()
		Parse(log, source)
	}
}

func BenchmarkParseJSLarge(b *testing.B) {
	contents := strings.Repeat("{\n"+jsCode+"\n}\n", 50)
	contents = strings.ReplaceAll(contents, "import { debounce } from './utils';", "")
	contents = strings.ReplaceAll(contents, "export const", "const")
	contents = strings.ReplaceAll(contents, "export default", "")
	source := test.SourceForTest(contents)
	b.SetBytes(int64(len(contents)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		log := logger.NewDeferLog()
		Parse(log, source)
	}
}
