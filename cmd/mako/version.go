package main

const makoVersion = "0.3.0"
