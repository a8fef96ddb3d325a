package export

const styleCSS = `
body {
  margin: 0 auto;
  padding: 0 1em;
  line-height: 1.6;
  text-align: justify;
  color: #333333;
}

h1 {
  text-align: center;
  font-size: 1.5em;
  margin: 2em auto;
  font-weight: bold;
  color: #2c3e50;
}

h2 {
  font-size: 1.2em;
  margin: 1.5em 0 0.5em;
  color: #2c3e50;
}

p.verse {
  margin: 0.3em 0;
  text-indent: 0;
}

p.verse sup {
  font-size: 0.7em;
  color: #8a8a8a;
  margin-right: 0.3em;
}

nav ol {
  list-style: none;
  padding-left: 0;
}
`
